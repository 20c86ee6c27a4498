package main

import (
	"draw-guess-be/internal/api/http"
	"draw-guess-be/internal/config"
	"draw-guess-be/internal/logger"
	"draw-guess-be/internal/service"
	"draw-guess-be/internal/state"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		service.NewRoomService(&cfg.Room),
	)

	// 启动服务器
	http.RunServer(appState)
}
