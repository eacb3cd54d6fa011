package gamify

// Snapshot 是成就判定的输入：捐赠处理完成后的用户统计，
// 加上触发判定的这笔捐赠本身的上下文。
type Snapshot struct {
	LifetimeDonated  float64
	TotalPoints      int64
	TotalDonations   int64
	Streak           int
	DistinctStorages int
	TypeCounts       map[DonationType]int64

	// 本次捐赠的上下文
	DonationAmount float64
	DonationType   DonationType
}

// Achievement 是静态成就目录中的一项。
// 解锁谓词只读取Snapshot，自身没有任何副作用。
type Achievement struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	Reward      int64
	Qualifies   func(s Snapshot) bool
}

// DefaultCatalog 返回平台的静态成就目录。
// 目录顺序是固定的：多个成就同时满足时，解锁结果按这里的顺序返回。
func DefaultCatalog() []Achievement {
	return []Achievement{
		{
			ID:          "first_donation",
			Name:        "First Steps",
			Description: "完成第一笔捐赠",
			Emoji:       "🎉",
			Reward:      500,
			Qualifies:   func(s Snapshot) bool { return s.TotalDonations >= 1 },
		},
		{
			ID:          "generous_giver",
			Name:        "Generous Giver",
			Description: "单笔捐赠达到100",
			Emoji:       "💝",
			Reward:      1000,
			Qualifies:   func(s Snapshot) bool { return s.DonationAmount >= 100 },
		},
		{
			ID:          "hundred_club",
			Name:        "Hundred Club",
			Description: "累计完成100笔捐赠",
			Emoji:       "💯",
			Reward:      5000,
			Qualifies:   func(s Snapshot) bool { return s.TotalDonations >= 100 },
		},
		{
			ID:          "location_explorer",
			Name:        "Location Explorer",
			Description: "在5个不同的捐赠点捐赠过",
			Emoji:       "🗺️",
			Reward:      750,
			Qualifies:   func(s Snapshot) bool { return s.DistinctStorages >= 5 },
		},
		{
			ID:          "week_warrior",
			Name:        "Week Warrior",
			Description: "连续7天每天捐赠",
			Emoji:       "🔥",
			Reward:      800,
			Qualifies:   func(s Snapshot) bool { return s.Streak >= 7 },
		},
		{
			ID:          "consistency_king",
			Name:        "Consistency King",
			Description: "连续30天每天捐赠",
			Emoji:       "👑",
			Reward:      3000,
			Qualifies:   func(s Snapshot) bool { return s.Streak >= 30 },
		},
		{
			ID:          "crypto_pioneer",
			Name:        "Crypto Pioneer",
			Description: "完成第一笔加密货币捐赠",
			Emoji:       "🪙",
			Reward:      600,
			Qualifies:   func(s Snapshot) bool { return s.TypeCounts[TypeCrypto] >= 1 },
		},
		{
			ID:          "volunteer_spirit",
			Name:        "Volunteer Spirit",
			Description: "完成第一笔志愿时间捐赠",
			Emoji:       "🤝",
			Reward:      600,
			Qualifies:   func(s Snapshot) bool { return s.TypeCounts[TypeTime] >= 1 },
		},
	}
}

// EvaluateAchievements 按目录固定顺序返回新满足条件的成就。
// 已经在unlocked集合中的成就永远不会再次出现在返回值中，
// 幂等性由集合判断保证，而不是依赖谓词的历史敏感性。
func EvaluateAchievements(catalog []Achievement, unlocked map[string]bool, s Snapshot) []Achievement {
	var newly []Achievement
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}
		if a.Qualifies(s) {
			newly = append(newly, a)
		}
	}
	return newly
}
