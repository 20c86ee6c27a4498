package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"draw-guess-be/internal/service/dto"
	"draw-guess-be/internal/service/game"
	"draw-guess-be/internal/state"
)

const GLOBAL_DATA_INTERVAL = 5 * time.Second

const RESP_GLOBAL_DATA = "GLOBAL_DATA"

type adminAuthRequest struct {
	Token string `json:"token"`
}

// AdminConsole 是运维用的管理端套接字：鉴权后周期推送全局聚合数据，
// 并接受移除玩家、删除房间两类指令
func AdminConsole(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		clientIP := ctx.RemoteAddr()

		// 未配置令牌时管理端整体禁用
		if appState.Cfg.AdminToken == "" {
			zap.S().Warnf("管理端未启用，拒绝来自 %s 的连接", clientIP)
			return
		}

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		// 首条消息必须携带正确令牌
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var auth adminAuthRequest

		if err := json.Unmarshal(msg, &auth); err != nil || auth.Token != appState.Cfg.AdminToken {
			zap.S().Warnf("管理端鉴权失败，来自 %s", clientIP)
			return
		}

		zap.S().Infof("管理端连接建立，来自 %s", clientIP)

		cmdCh := make(chan dto.AdminCommand)

		go func() {
			defer close(cmdCh)

			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}

				var cmd dto.AdminCommand
				if err := json.Unmarshal(msg, &cmd); err != nil {
					zap.S().Debugf("管理端指令解析失败：%v", err)
					continue
				}

				cmdCh <- cmd
			}
		}()

		ticker := time.NewTicker(GLOBAL_DATA_INTERVAL)
		defer ticker.Stop()

		// 建立后立即推一次，不等首个周期
		if err := writeGlobalData(conn, appState); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

				if err := writeGlobalData(conn, appState); err != nil {
					zap.S().Infof("管理端连接断开，来自 %s", clientIP)
					return
				}

			case cmd, ok := <-cmdCh:
				if !ok {
					zap.S().Infof("管理端连接断开，来自 %s", clientIP)
					return
				}

				if err := execAdminCommand(appState, cmd); err != nil {
					conn.WriteJSON(game.ResponseWrapper{
						Channel: cmd.Command,
						Error:   err.Error(),
					})
					continue
				}

				// 指令生效后立即刷新一次聚合数据作为确认
				if err := writeGlobalData(conn, appState); err != nil {
					return
				}
			}
		}
	}
}

func execAdminCommand(appState *state.AppState, cmd dto.AdminCommand) error {
	switch cmd.Command {
	case dto.COMMAND_DELETE_PLAYER:
		zap.S().Infof("管理端移除玩家 %s（房间 %s）", cmd.PlayerID, cmd.RoomID)
		return appState.RoomSvc.KickPlayer(cmd.RoomID, cmd.PlayerID, "管理员移除")

	case dto.COMMAND_DELETE_ROOM:
		zap.S().Infof("管理端删除房间 %s", cmd.RoomID)
		return appState.RoomSvc.DeleteRoom(cmd.RoomID)

	default:
		return game.NewValidationError("未知的管理端指令")
	}
}

func writeGlobalData(conn *websocket.Conn, appState *state.AppState) error {
	rooms := appState.RoomSvc.Snapshot()

	playerCount := 0
	for _, room := range rooms {
		playerCount += room.PlayerCount
	}

	return conn.WriteJSON(game.WrapResponse(
		RESP_GLOBAL_DATA,
		dto.GlobalDataResponse{
			RoomCount:       len(rooms),
			PlayerCount:     playerCount,
			ConnectionCount: ConnectionCount(),
			Rooms:           rooms,
		},
	))
}
