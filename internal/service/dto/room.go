package dto

// 建房请求体可以为空；roomId 由管理端指定固定房间号时使用
type CreateRoomRequest struct {
	RoomID string `json:"roomId,omitempty"`
}

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}
