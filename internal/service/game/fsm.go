package game

import (
	"time"

	"go.uber.org/zap"

	"draw-guess-be/internal/config"
)

const REQ_CHAN_BUFFER_SIZE = 64

// GameMachine 是房间的状态机驱动器：独占一个 goroutine，
// 串行消费请求通道和定时器通道，因此房间内部状态无需加锁
type GameMachine struct {
	ctx *GameContext

	handlers map[string]StageHandler
	handler  StageHandler

	reqCh  chan RequestWrapper
	doneCh chan struct{}

	createdAt time.Time
}

func NewGameMachine(
	roomID string,
	policy *config.RoomPolicyConfig,
	doneCh chan struct{},
	onPlayersChanged func(),
) *GameMachine {
	machine := &GameMachine{
		ctx:       NewGameContext(roomID, policy, onPlayersChanged),
		reqCh:     make(chan RequestWrapper, REQ_CHAN_BUFFER_SIZE),
		doneCh:    doneCh,
		createdAt: time.Now(),
	}

	machine.handlers = map[string]StageHandler{
		STATE_LOBBY:       NewLobbyStageHandler(),
		STATE_CHOOSE_WORD: NewChooseWordStageHandler(),
		STATE_DRAWING:     NewDrawingStageHandler(),
		STATE_END_ROUND:   NewEndRoundStageHandler(),
		STATE_END_GAME:    NewEndGameStageHandler(),
	}
	for _, handler := range machine.handlers {
		handler.SetOnSwitch(machine.switchStage)
	}

	machine.handler = machine.handlers[STATE_LOBBY]

	// 初始快照在协程启动前发布，创建方随即可读
	machine.ctx.PublishStatus()

	return machine
}

func (gm *GameMachine) GetReqCh() chan RequestWrapper {
	return gm.reqCh
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}

// Status 返回最近一次发布的房间快照，可在任意 goroutine 调用
func (gm *GameMachine) Status() RoomStatus {
	return gm.ctx.Status()
}

// switchStage 只修改目标状态，实际的 OnExit/OnEnter 由主循环统一推进，
// 这样 OnEnter 内部再次切换也能被正确串联
func (gm *GameMachine) switchStage(nextStage string) {
	if _, exists := gm.handlers[nextStage]; !exists {
		zap.S().Errorf("房间 %s 试图切换到未知阶段 %s", gm.ctx.RoomID, nextStage)
		return
	}

	gm.ctx.RoomState = nextStage
}

func (gm *GameMachine) settleStage() {
	for gm.handler.Stage() != gm.ctx.RoomState {
		zap.S().Debugf(
			"房间 %s 阶段切换 %s -> %s",
			gm.ctx.RoomID, gm.handler.Stage(), gm.ctx.RoomState,
		)

		gm.handler.OnExit(gm.ctx)
		gm.handler = gm.handlers[gm.ctx.RoomState]
		gm.handler.OnEnter(gm.ctx)
	}
}

// Start 是房间 goroutine 的主体，doneCh 关闭后踢出所有玩家并退出
func (gm *GameMachine) Start() {
	zap.S().Infof("房间 %s 状态机启动", gm.ctx.RoomID)

	gm.handler.OnEnter(gm.ctx)
	gm.settleStage()
	gm.ctx.PublishStatus()

	for {
		select {
		case req := <-gm.reqCh:
			gm.dispatch(req)

		case req := <-gm.ctx.TmoCh:
			gm.dispatch(req)

		case <-gm.doneCh:
			gm.shutdown()
			return
		}
	}
}

func (gm *GameMachine) dispatch(req RequestWrapper) {
	if err := gm.handler.OnHandle(gm.ctx, req); err != nil {
		zap.L().Debug(
			"请求处理失败",
			zap.String("room_id", gm.ctx.RoomID),
			zap.String("channel", req.Channel),
			zap.String("author_id", req.AuthorID),
			zap.Error(err),
		)

		// 控制事件（加入、退出、定时器）没有会话内作者，错误只记日志
		if req.AuthorID != "" {
			gm.ctx.UnicastResp(req.AuthorID, WrapErrResponse(req.Channel, err))
		}
	}

	gm.settleStage()
	gm.ctx.PublishStatus()
}

func (gm *GameMachine) shutdown() {
	zap.S().Infof("房间 %s 状态机关闭", gm.ctx.RoomID)

	gm.ctx.ClearAllTimeouts()

	for _, playerID := range append([]string(nil), gm.ctx.JoinOrder...) {
		gm.ctx.KickPlayer(playerID, "房间已删除")
	}

	gm.ctx.PublishStatus()
}
