package game

import "time"

// 房间状态，由回合引擎驱动流转：
// LOBBY -> CHOOSE_WORD -> DRAWING -> END_ROUND -> (回到 CHOOSE_WORD 或) END_GAME -> LOBBY
const (
	STATE_LOBBY       = "LOBBY"
	STATE_CHOOSE_WORD = "CHOOSE_WORD"
	STATE_DRAWING     = "DRAWING"
	STATE_END_ROUND   = "END_ROUND"
	STATE_END_GAME    = "END_GAME"
)

// 游戏模式，决定计分规则；除计分外回合引擎全部共用
const (
	GAMEMODE_CLASSIC = "CLASSIC"
)

// 词库类别
const (
	WORDLIST_ANIMALS = "ANIMALS"
	WORDLIST_POKEMON = "POKEMON"
)

// 画笔工具
const (
	TOOL_BRUSH  = "BRUSH"
	TOOL_ERASER = "ERASER"
	TOOL_FILL   = "FILL"
	TOOL_CLEAR  = "CLEAR"
)

type Player struct {
	ID         string `json:"playerId"`
	Name       string `json:"name"`
	ImgURL     string `json:"imgUrl"`
	TotalPoint int    `json:"totalPoint"`
	RoundPoint int    `json:"roundPoint"`

	RespCh chan ResponseWrapper `json:"-"`
}

// 聊天消息，isSpectator 表示作者发送时已经猜中或正在作画
type Message struct {
	Author      Author    `json:"author"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	IsSpectator bool      `json:"isSpectator"`
}

type Author struct {
	Name   string `json:"name"`
	ImgURL string `json:"imgUrl"`
}

type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Draw struct {
	Tool       string      `json:"tool"`
	CoordsFrom *Coordinate `json:"coordsFrom,omitempty"`
	CoordsTo   *Coordinate `json:"coordsTo,omitempty"`
	Color      string      `json:"color,omitempty"`
	LineWidth  float64     `json:"lineWidth,omitempty"`
}

type RoomConfig struct {
	GameMode         string `json:"gameMode"`
	TimeByTurn       int    `json:"timeByTurn"`
	CycleRoundByGame int    `json:"cycleRoundByGame"`
	WordList         string `json:"wordList"`
}

func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		GameMode:         GAMEMODE_CLASSIC,
		TimeByTurn:       90,
		CycleRoundByGame: 5,
		WordList:         WORDLIST_ANIMALS,
	}
}

// 房间的只读快照，供注册表清扫和管理端读取，
// 由房间协程在每次变更后发布，读取方不接触房间内部状态
type RoomStatus struct {
	RoomID      string     `json:"roomId"`
	RoomState   string     `json:"roomState"`
	PlayerCount int        `json:"playerCount"`
	DrawCount   int        `json:"drawCount"`
	IsPlaying   bool       `json:"isPlaying"`
	PlayerList  []Player   `json:"playerList"`
	PlayerTurn  []Player   `json:"playerTurn"`
	RoomConfig  RoomConfig `json:"roomConfig"`
}
