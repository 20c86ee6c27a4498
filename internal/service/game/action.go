package game

import "time"

// INIT 是连接上的首条消息，由连接层解析后以 Native 形式投递，
// 响应通道随请求一起进入房间协程
type JoinRoomRequest struct {
	Name   string `json:"name"`
	ImgURL string `json:"imgUrl"`

	RespCh chan ResponseWrapper `json:"-"`
}

type InitResponse struct {
	PlayerID string    `json:"playerId"`
	Messages []Message `json:"messages"`
	Draws    []Draw    `json:"draws"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// DRAW 的出站载荷带上作者，入站载荷就是 Draw 本身
type DrawResponse struct {
	Draw
	Draftsman Player `json:"draftsman"`
}

type ChooseWordRequest struct {
	Word string `json:"word"`
}

// 私发给画师的候选词
type ChooseWordAsk struct {
	Words []string `json:"words"`
}

// 选词确认，只发给画师
type ChooseWordResponse struct {
	Word string `json:"word"`
}

type GuessResponse struct {
	GuessGainPoint int    `json:"guessGainPoint"`
	DrawGainPoint  int    `json:"drawGainPoint"`
	Guesser        Player `json:"guesser"`
}

// INFO 载荷按接收者个性化：画师和已猜中者看到原词，其余玩家看到掩码词
type InfoResponse struct {
	RoomState     string     `json:"roomState"`
	PlayerAdminID string     `json:"playerAdminId,omitempty"`
	PlayerList    []Player   `json:"playerList"`
	RoomConfig    RoomConfig `json:"roomConfig"`
	RoundData     *RoundData `json:"roundData,omitempty"`
}

type RoundData struct {
	DateStateStarted  *time.Time `json:"dateStateStarted,omitempty"`
	Word              string     `json:"word"`
	RoundCurrentCycle int        `json:"roundCurrentCycle"`
	PlayerTurn        []Player   `json:"playerTurn"`
}

type KickResponse struct {
	Reason string `json:"reason,omitempty"`
}

// 连接断开时由连接层合成；RespCh 用于识别已被顶替的旧连接
type ExitRequest struct {
	PlayerID string
	RespCh   chan ResponseWrapper
}

// 定时器到期事件；Kind 与 Stage 在触发时校验，过期定时器静默忽略
type TimeoutRequest struct {
	Kind  string
	Stage string
}

// 注册表在玩家数低于下限时强制终止对局
type EndGameRequest struct {
	Reason string
}

// 管理端移除玩家
type KickPlayerRequest struct {
	PlayerID string
	Reason   string
}

type RecheckRequest struct{}
