package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 协议信道，客户端与服务器共用同一个信封 { channel, data? }
const (
	CHANNEL_PING        = "PING"
	CHANNEL_PONG        = "PONG"
	CHANNEL_INIT        = "INIT"
	CHANNEL_CHAT        = "CHAT"
	CHANNEL_DRAW        = "DRAW"
	CHANNEL_INFO        = "INFO"
	CHANNEL_CONFIG      = "CONFIG"
	CHANNEL_START       = "START"
	CHANNEL_CHOOSE_WORD = "CHOOSE_WORD"
	CHANNEL_GUESS       = "GUESS"
	CHANNEL_KICK        = "KICK"
)

// 服务器内部事件，只通过 Native 字段传递，客户端伪造同名 channel 不会命中
const (
	REQ_TIMEOUT     = "Timeout"
	REQ_EXIT        = "ExitRoom"
	REQ_END_GAME    = "ForceEndGame"
	REQ_RECHECK     = "RecheckRound"
	REQ_KICK_PLAYER = "KickPlayer"
)

type RequestWrapper struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data,omitempty"`

	// 以下字段由连接层或注册表填充，不参与序列化
	AuthorID string `json:"-"`
	Native   any    `json:"-"`
}

type ResponseWrapper struct {
	Channel string `json:"channel"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func WrapResponse(channel string, data any) ResponseWrapper {
	return ResponseWrapper{
		Channel: channel,
		Data:    data,
	}
}

func WrapErrResponse(channel string, err error) ResponseWrapper {
	return ResponseWrapper{
		Channel: channel,
		Error:   err.Error(),
	}
}

func TryUnwrapChatRequest(wrapper RequestWrapper) *ChatRequest {
	if wrapper.Channel != CHANNEL_CHAT || wrapper.Native != nil {
		return nil
	}

	var chatRequest ChatRequest

	if err := json.Unmarshal(wrapper.Data, &chatRequest); err != nil {
		zap.L().Debug(
			"解析 Chat 请求失败",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &chatRequest
}

func TryUnwrapDrawRequest(wrapper RequestWrapper) *Draw {
	if wrapper.Channel != CHANNEL_DRAW || wrapper.Native != nil {
		return nil
	}

	var draw Draw

	if err := json.Unmarshal(wrapper.Data, &draw); err != nil {
		zap.L().Debug(
			"解析 Draw 请求失败",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &draw
}

func TryUnwrapConfigRequest(wrapper RequestWrapper) *RoomConfig {
	if wrapper.Channel != CHANNEL_CONFIG || wrapper.Native != nil {
		return nil
	}

	var roomConfig RoomConfig

	if err := json.Unmarshal(wrapper.Data, &roomConfig); err != nil {
		zap.L().Debug(
			"解析 Config 请求失败",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &roomConfig
}

func TryUnwrapChooseWordRequest(wrapper RequestWrapper) *ChooseWordRequest {
	if wrapper.Channel != CHANNEL_CHOOSE_WORD || wrapper.Native != nil {
		return nil
	}

	var chooseWordRequest ChooseWordRequest

	if err := json.Unmarshal(wrapper.Data, &chooseWordRequest); err != nil {
		zap.L().Debug(
			"解析 ChooseWord 请求失败",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &chooseWordRequest
}

func TryUnwrapJoinRoomRequest(wrapper RequestWrapper) *JoinRoomRequest {
	if wrapper.Channel != CHANNEL_INIT {
		return nil
	}

	joinRoomRequest, ok := wrapper.Native.(*JoinRoomRequest)
	if !ok {
		return nil
	}

	return joinRoomRequest
}

func TryUnwrapExitRequest(wrapper RequestWrapper) *ExitRequest {
	if wrapper.Channel != REQ_EXIT {
		return nil
	}

	exitRequest, ok := wrapper.Native.(*ExitRequest)
	if !ok {
		return nil
	}

	return exitRequest
}

func TryUnwrapTimeoutRequest(wrapper RequestWrapper) *TimeoutRequest {
	if wrapper.Channel != REQ_TIMEOUT {
		return nil
	}

	timeoutRequest, ok := wrapper.Native.(*TimeoutRequest)
	if !ok {
		return nil
	}

	return timeoutRequest
}

func TryUnwrapEndGameRequest(wrapper RequestWrapper) *EndGameRequest {
	if wrapper.Channel != REQ_END_GAME {
		return nil
	}

	endGameRequest, ok := wrapper.Native.(*EndGameRequest)
	if !ok {
		return nil
	}

	return endGameRequest
}

func TryUnwrapKickPlayerRequest(wrapper RequestWrapper) *KickPlayerRequest {
	if wrapper.Channel != REQ_KICK_PLAYER {
		return nil
	}

	kickPlayerRequest, ok := wrapper.Native.(*KickPlayerRequest)
	if !ok {
		return nil
	}

	return kickPlayerRequest
}

func IsRecheckRequest(wrapper RequestWrapper) bool {
	return wrapper.Channel == REQ_RECHECK && wrapper.Native != nil
}
