package gamify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAdvanceStreakFrom(t *testing.T) {
	today := day("2025-06-15")

	// 从未捐赠 → 连击1
	streak, date, sameDay := AdvanceStreakFrom(0, time.Time{}, today)
	assert.Equal(t, 1, streak)
	assert.Equal(t, DateOf(today), date)
	assert.False(t, sameDay)

	// 昨天捐过 → 连击加1
	streak, date, sameDay = AdvanceStreakFrom(4, day("2025-06-14"), today)
	assert.Equal(t, 5, streak)
	assert.Equal(t, DateOf(today), date)
	assert.False(t, sameDay)

	// 同日第二笔 → 连击不变
	streak, _, sameDay = AdvanceStreakFrom(4, day("2025-06-15"), today.Add(5*time.Hour))
	assert.Equal(t, 4, streak)
	assert.True(t, sameDay)

	// 断裂 → 重置为1
	streak, _, _ = AdvanceStreakFrom(10, day("2025-06-12"), today)
	assert.Equal(t, 1, streak)
}

// 时钟偏移让"今天"早于上次捐赠日期时，按同日钳制，连击永不为负
func TestClockSkewClampsToSameDay(t *testing.T) {
	lastDay := day("2025-06-16")
	streak, date, sameDay := AdvanceStreakFrom(3, lastDay, day("2025-06-15"))
	assert.Equal(t, 3, streak)
	assert.True(t, sameDay)
	// 记录的日期保持在较晚的一天
	assert.Equal(t, DateOf(lastDay), date)
	assert.Greater(t, streak, 0)
}

// 跨时区的时间戳归一化到UTC自然日
func TestDateOfNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	late := time.Date(2025, 6, 15, 2, 30, 0, 0, loc) // UTC 2025-06-14 18:30
	assert.Equal(t, day("2025-06-14"), DateOf(late))
}
