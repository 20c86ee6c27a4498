package game

import (
	"math/rand/v2"
	"time"
)

// 回合引擎的固定时序参数（秒），与房间配置无关
const (
	DELAY_NEXT_ROUND  = 5 * time.Second
	DELAY_END_GAME    = 10 * time.Second
	DELAY_CHOOSE_WORD = 15 * time.Second
	ROUND_TICK        = 1 * time.Second

	WORD_CHOOSE_NB = 3
)

// Round 是一局游戏内跨回合存续的引擎状态，归属房间协程独占，
// 房间配置变更或新开一局时整体重建
type Round struct {
	GameMode string

	// 当前回合提供给画师的候选词；选定后 Word 与 MaskedWord 生效
	PossibleWords []string
	Word          string
	MaskedWord    string

	// 本回合的画师（当前恰好一名，切片是为多画师模式预留的）
	PlayerTurn []string
	// 本回合已猜中的玩家
	PlayersGuess map[string]struct{}
	// 本轮循环还未作画的玩家队列，洗牌后依次出队
	NotYetPlayed []string

	Draws []Draw

	// 已开始的循环数，从 1 起计
	CycleNumber int
	// 当前阶段开始时刻，零值表示尚未开始
	StateStarted time.Time
}

func NewRound(gameMode string) *Round {
	return &Round{
		GameMode:      gameMode,
		PossibleWords: []string{},
		PlayerTurn:    []string{},
		PlayersGuess:  make(map[string]struct{}),
		NotYetPlayed:  []string{},
		Draws:         []Draw{},
	}
}

// RefillCycle 以当前玩家重建本循环的作画队列并洗牌
func (r *Round) RefillCycle(playerIDs []string) {
	r.CycleNumber++

	r.NotYetPlayed = append([]string{}, playerIDs...)
	rand.Shuffle(len(r.NotYetPlayed), func(i, j int) {
		r.NotYetPlayed[i], r.NotYetPlayed[j] = r.NotYetPlayed[j], r.NotYetPlayed[i]
	})
}

// PopNextDrawer 取出下一位画师；队列为空时返回 false
func (r *Round) PopNextDrawer() (string, bool) {
	if len(r.NotYetPlayed) == 0 {
		return "", false
	}

	next := r.NotYetPlayed[0]
	r.NotYetPlayed = r.NotYetPlayed[1:]

	r.PlayerTurn = []string{next}

	return next, true
}

// ResetTurn 清空单回合状态，循环队列和循环计数保留
func (r *Round) ResetTurn() {
	r.PossibleWords = []string{}
	r.Word = ""
	r.MaskedWord = ""
	r.PlayerTurn = []string{}
	r.PlayersGuess = make(map[string]struct{})
	r.Draws = []Draw{}
	r.StateStarted = time.Time{}
}

func (r *Round) RemovePlayerID(playerID string) {
	r.PlayerTurn = removeFromSlice(r.PlayerTurn, playerID)
	r.NotYetPlayed = removeFromSlice(r.NotYetPlayed, playerID)
	delete(r.PlayersGuess, playerID)
}

// AddDraw 记录一笔；CLEAR 工具清空画板而不是追加
func (r *Round) AddDraw(draw Draw) {
	if draw.Tool == TOOL_CLEAR {
		r.Draws = []Draw{}
		return
	}

	r.Draws = append(r.Draws, draw)
}

func (r *Round) IsDrawer(playerID string) bool {
	for _, id := range r.PlayerTurn {
		if id == playerID {
			return true
		}
	}

	return false
}

func (r *Round) HasGuessed(playerID string) bool {
	_, ok := r.PlayersGuess[playerID]
	return ok
}

// HasGuessedOrDrawer 判定玩家是否属于旁观口（画师或本回合已猜中者）
func (r *Round) HasGuessedOrDrawer(playerID string) bool {
	return r.IsDrawer(playerID) || r.HasGuessed(playerID)
}

func removeFromSlice(ids []string, playerID string) []string {
	filtered := ids[:0]
	for _, id := range ids {
		if id != playerID {
			filtered = append(filtered, id)
		}
	}

	return filtered
}
