package game

import (
	"math"
	"time"
)

// GetGuessPointVariable 按猜中时刻的剩余时间线性衰减计分：
// 开画瞬间猜中得 2*minPoint（受 maxPoint 封顶），压哨猜中得 minPoint，
// 结果始终落在 [minPoint, maxPoint] 区间内
func GetGuessPointVariable(maxPoint, minPoint int, startDrawDate, endDrawDate, guessDate time.Time) int {
	interval := endDrawDate.Sub(startDrawDate)
	if interval <= 0 {
		return maxPoint
	}

	remain := endDrawDate.Sub(guessDate)
	if remain < 0 {
		remain = 0
	}

	point := int(math.Round(
		float64(minPoint) + float64(minPoint)*remain.Seconds()/interval.Seconds(),
	))

	if point > maxPoint {
		return maxPoint
	}
	if point < minPoint {
		return minPoint
	}

	return point
}

// GetDrawPoint 是画师在每次有人猜中时的奖励，为猜中者得分的一半（四舍五入）
func GetDrawPoint(guessPoint int) int {
	return int(math.Round(float64(guessPoint) / 2))
}

// guessAward 按游戏模式结算一次猜中的得分。
// 模式是一个封闭集合，不走接口分发；未知模式按 CLASSIC 处理
func guessAward(gameMode string, maxPoint, minPoint int, startDrawDate, endDrawDate, guessDate time.Time) int {
	switch gameMode {
	case GAMEMODE_CLASSIC:
		fallthrough
	default:
		return GetGuessPointVariable(maxPoint, minPoint, startDrawDate, endDrawDate, guessDate)
	}
}
