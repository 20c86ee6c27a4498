package http

import (
	"errors"

	"github.com/kataras/iris/v12"

	"draw-guess-be/internal/service"
	"draw-guess-be/internal/service/dto"
	"draw-guess-be/internal/state"
)

func CreateRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.CreateRoomRequest

		// 请求体可为空，留空时由服务器分配房间号
		_ = ctx.ReadJSON(&req)

		if req.RoomID != "" {
			if err := appState.RoomSvc.CreateRoomWithID(req.RoomID); err != nil {
				status := iris.StatusBadRequest
				if errors.Is(err, service.ErrRoomDuplicate) {
					status = iris.StatusConflict
				}

				ctx.StatusCode(status)
				ctx.JSON(iris.Map{
					"error": err.Error(),
				})
				return
			}

			ctx.JSON(dto.CreateRoomResponse{RoomID: req.RoomID})
			return
		}

		roomID, err := appState.RoomSvc.CreateRoom()
		if err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(dto.CreateRoomResponse{RoomID: roomID})
	}
}

func GetRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.Params().Get("roomId")

		status, err := appState.RoomSvc.GetRoomStatus(roomID)
		if err != nil {
			ctx.StatusCode(iris.StatusNotFound)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(status)
	}
}
