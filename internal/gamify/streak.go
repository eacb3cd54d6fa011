package gamify

import "time"

// DateOf 将时间戳归一化为UTC的自然日。
// 连击逻辑只比较自然日，不关心一天内的具体时刻。
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AdvanceStreakFrom 根据已有连击天数、最近一次捐赠日期和本次捐赠时间，
// 计算新的连击天数。规则：
//   - 从未捐赠过 → 连击变为1
//   - 上次正好是昨天 → 连击加1
//   - 上次就是今天（同日第二笔）→ 连击不变，不重复计数
//   - 上次在更早之前 → 连击断裂，重置为1
//   - 时钟回拨导致"今天"早于上次日期 → 按同日处理，连击永不为负
//
// 返回新的连击天数、应写回用户的捐赠日期，以及是否为同日重复捐赠。
func AdvanceStreakFrom(streak int, lastDonation time.Time, now time.Time) (int, time.Time, bool) {
	today := DateOf(now)

	// 从未捐赠
	if lastDonation.IsZero() || streak <= 0 {
		return 1, today, false
	}

	lastDay := DateOf(lastDonation)
	days := int(today.Sub(lastDay).Hours() / 24)

	switch {
	case days <= 0:
		// 同日第二笔，或时钟偏移让"今天"早于上次日期：一律按同日钳制
		return streak, lastDay, true
	case days == 1:
		// 昨天捐过，连击加1
		return streak + 1, today, false
	default:
		// 连击断裂
		return 1, today, false
	}
}
