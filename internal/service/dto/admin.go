package dto

import "draw-guess-be/internal/service/game"

// 管理端 WebSocket 的指令与推送

const (
	COMMAND_DELETE_PLAYER = "DELETE_PLAYER"
	COMMAND_DELETE_ROOM   = "DELETE_ROOM"
)

type AdminCommand struct {
	Command  string `json:"command"`
	RoomID   string `json:"roomId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

// 周期推送的全局聚合数据
type GlobalDataResponse struct {
	RoomCount       int               `json:"roomCount"`
	PlayerCount     int               `json:"playerCount"`
	ConnectionCount int64             `json:"connectionCount"`
	Rooms           []game.RoomStatus `json:"rooms"`
}
