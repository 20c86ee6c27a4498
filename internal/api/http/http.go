package http

import (
	"fmt"

	"github.com/kataras/iris/v12"

	"draw-guess-be/internal/api/http/websocket"
	"draw-guess-be/internal/state"
)

func RunServer(appState *state.AppState) {
	app := iris.Default()

	app.HandleDir(
		"/",
		iris.Dir(appState.Cfg.FrontDir),
		iris.DirOptions{
			IndexName: "index.html",
			SPA:       true,
			Compress:  true,
		},
	)

	// 兼容旧客户端的建房路径
	app.Post("/room", CreateRoom(appState))

	api := app.Party("/api/v1")

	api.Post("/rooms/create", CreateRoom(appState))
	api.Get("/rooms/{roomId}", GetRoom(appState))

	api.Get("/ws/join", websocket.JoinGame(appState))
	api.Get("/ws/admin", websocket.AdminConsole(appState))

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	app.Listen(addr)
}
