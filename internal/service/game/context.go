package game

import (
	"sync"
	"time"

	"draw-guess-be/internal/config"

	"go.uber.org/zap"
)

// GameContext 聚合一个房间的全部可变状态，
// 由房间协程独占持有，外部只通过公开操作进入
type GameContext struct {
	RoomID    string
	RoomState string
	AdminID   string

	Players   map[string]*Player
	JoinOrder []string

	Messages []Message
	Config   RoomConfig
	Round    *Round

	// 当前对局加载完成的词库
	Words []string

	Policy *config.RoomPolicyConfig

	// 定时器到期事件的汇入通道
	TmoCh chan RequestWrapper

	timers map[string]*time.Timer

	// 玩家数变化时回调注册表，用于触发带抖动的清扫
	onPlayersChanged func()

	statusMu sync.Mutex
	status   RoomStatus
}

func NewGameContext(
	roomID string,
	policy *config.RoomPolicyConfig,
	onPlayersChanged func(),
) *GameContext {
	return &GameContext{
		RoomID:           roomID,
		RoomState:        STATE_LOBBY,
		Players:          make(map[string]*Player),
		Config:           DefaultRoomConfig(),
		Round:            NewRound(GAMEMODE_CLASSIC),
		Policy:           policy,
		TmoCh:            make(chan RequestWrapper, REQ_CHAN_BUFFER_SIZE),
		timers:           make(map[string]*time.Timer),
		onPlayersChanged: onPlayersChanged,
	}
}

func (gc *GameContext) OrderedPlayers() []Player {
	players := make([]Player, 0, len(gc.JoinOrder))
	for _, id := range gc.JoinOrder {
		if p, ok := gc.Players[id]; ok {
			players = append(players, *p)
		}
	}

	return players
}

func (gc *GameContext) PlayerTurnPlayers() []Player {
	players := make([]Player, 0, len(gc.Round.PlayerTurn))
	for _, id := range gc.Round.PlayerTurn {
		if p, ok := gc.Players[id]; ok {
			players = append(players, *p)
		}
	}

	return players
}

func (gc *GameContext) IsInGame() bool {
	return gc.RoomState != STATE_LOBBY
}

// BroadcastResp 向房间内所有玩家发送响应，可按 ID 排除（如不把笔画回显给作者）。
// 发送是尽力而为的：通道已满就丢弃并告警，绝不阻塞房间协程
func (gc *GameContext) BroadcastResp(resp ResponseWrapper, excludeIDs ...string) {
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	for _, p := range gc.Players {
		if _, ok := excluded[p.ID]; ok {
			continue
		}

		select {
		case p.RespCh <- resp:
		default:
			zap.L().Warn(
				"发送广播响应失败：玩家响应通道已满",
				zap.String("room_id", gc.RoomID),
				zap.String("player_id", p.ID),
			)
		}
	}
}

func (gc *GameContext) UnicastResp(playerID string, resp ResponseWrapper) {
	player, ok := gc.Players[playerID]
	if !ok {
		zap.L().Warn(
			"无法找到玩家进行单播响应",
			zap.String("room_id", gc.RoomID),
			zap.String("player_id", playerID),
		)
		return
	}

	select {
	case player.RespCh <- resp:
	default:
		zap.L().Warn(
			"发送单播响应失败：玩家响应通道已满",
			zap.String("room_id", gc.RoomID),
			zap.String("player_id", playerID),
		)
	}
}

// KickPlayer 发送踢出通知并将玩家移出房间。
// 响应通道的生命周期归连接层所有，这里绝不关闭它：
// 连接层的读循环可能还在向通道写入，写协程送达踢出通知后自行关闭连接
func (gc *GameContext) KickPlayer(playerID, reason string) {
	if _, ok := gc.Players[playerID]; !ok {
		return
	}

	zap.S().Infof("房间 %s 踢出玩家 %s（原因：%s）", gc.RoomID, playerID, reason)

	gc.UnicastResp(playerID, WrapResponse(
		CHANNEL_KICK,
		KickResponse{Reason: reason},
	))

	gc.removeFromRoster(playerID)
}

// removeFromRoster 从名册和回合引擎中移除玩家，必要时移交管理员
func (gc *GameContext) removeFromRoster(playerID string) {
	delete(gc.Players, playerID)
	gc.JoinOrder = removeFromSlice(gc.JoinOrder, playerID)
	gc.Round.RemovePlayerID(playerID)

	if gc.AdminID == playerID {
		if len(gc.JoinOrder) > 0 {
			gc.AdminID = gc.JoinOrder[0]
			zap.S().Infof("房间 %s 管理员移交给 %s", gc.RoomID, gc.AdminID)
		} else {
			gc.AdminID = ""
		}
	}
}

// PublishStatus 在每次状态变更后刷新对外快照，
// 注册表清扫和管理端读取的都是这份副本
func (gc *GameContext) PublishStatus() {
	status := RoomStatus{
		RoomID:      gc.RoomID,
		RoomState:   gc.RoomState,
		PlayerCount: len(gc.Players),
		DrawCount:   len(gc.Round.Draws),
		IsPlaying:   gc.IsInGame(),
		PlayerList:  gc.OrderedPlayers(),
		PlayerTurn:  gc.PlayerTurnPlayers(),
		RoomConfig:  gc.Config,
	}

	gc.statusMu.Lock()
	gc.status = status
	gc.statusMu.Unlock()
}

func (gc *GameContext) Status() RoomStatus {
	gc.statusMu.Lock()
	defer gc.statusMu.Unlock()

	return gc.status
}

func (gc *GameContext) notifyPlayersChanged() {
	if gc.onPlayersChanged != nil {
		gc.onPlayersChanged()
	}
}
