package game

import (
	"time"

	"go.uber.org/zap"
)

// 定时器种类，每个房间每种至多持有一个；
// 换阶段时先清理同类定时器，到期事件还要通过 Kind+Stage 校验
const (
	TMO_CHOOSE_WORD = "ChooseWord"
	TMO_ROUND_TICK  = "RoundTick"
	TMO_NEXT_ROUND  = "NextRound"
	TMO_END_GAME    = "EndGame"
)

// SetTimeout 设置指定种类的定时器，同类旧定时器先取消。
// 到期事件携带设置时刻的阶段，供处理方识别迟到的触发
func (gc *GameContext) SetTimeout(kind string, d time.Duration) {
	gc.ClearTimeout(kind)

	stageAtArm := gc.RoomState

	gc.timers[kind] = time.AfterFunc(d, func() {
		tmo := RequestWrapper{
			Channel: REQ_TIMEOUT,
			Native: &TimeoutRequest{
				Kind:  kind,
				Stage: stageAtArm,
			},
		}

		select {
		case gc.TmoCh <- tmo:
		default:
			zap.L().Warn(
				"投递定时器事件失败：超时通道已满",
				zap.String("room_id", gc.RoomID),
				zap.String("kind", kind),
			)
		}
	})
}

func (gc *GameContext) ClearTimeout(kind string) {
	if t, ok := gc.timers[kind]; ok {
		t.Stop()
		delete(gc.timers, kind)
	}
}

func (gc *GameContext) ClearAllTimeouts() {
	for kind, t := range gc.timers {
		t.Stop()
		delete(gc.timers, kind)
	}
}
