package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetGuessPointVariable(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)

	tests := []struct {
		name  string
		guess time.Time
		want  int
	}{
		{"开画瞬间猜中封顶", start, 1000},
		{"压哨猜中拿保底", end, 500},
		{"半程猜中", start.Add(45 * time.Second), 750},
		{"四分之一时猜中", start.Add(22500 * time.Millisecond), 875},
		{"超时后猜中不低于保底", end.Add(10 * time.Second), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetGuessPointVariable(1000, 500, start, end, tt.guess)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetGuessPointVariable_ZeroInterval(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 1000, GetGuessPointVariable(1000, 500, now, now, now))
}

func TestGetGuessPointVariable_Monotonic(t *testing.T) {
	start := time.Now()
	end := start.Add(120 * time.Second)

	prev := GetGuessPointVariable(1000, 500, start, end, start)

	for sec := 1; sec <= 120; sec++ {
		point := GetGuessPointVariable(1000, 500, start, end, start.Add(time.Duration(sec)*time.Second))

		assert.LessOrEqual(t, point, prev, "猜得越晚得分不应更高")
		assert.GreaterOrEqual(t, point, 500)
		assert.LessOrEqual(t, point, 1000)

		prev = point
	}
}

func TestGetDrawPoint(t *testing.T) {
	assert.Equal(t, 500, GetDrawPoint(1000))
	assert.Equal(t, 250, GetDrawPoint(500))
	assert.Equal(t, 438, GetDrawPoint(875))
	assert.Equal(t, 0, GetDrawPoint(0))
}
