package gamify

// ClassifyTier 是从累计捐赠额到等级的纯函数。
// 门槛是包含下界：累计额恰好等于门槛时归属更高的等级。
// 同一个累计额无论历史如何，总是得到同一个等级。
func (r Rules) ClassifyTier(lifetimeDonated float64) Tier {
	tier := TierBronze
	for i := TierSilver; i <= TierPlatinum; i++ {
		if lifetimeDonated >= r.TierThresholds[i] {
			tier = i
		}
	}
	return tier
}

// TierMultiplier 返回指定等级的积分乘数。
func (r Rules) TierMultiplier(t Tier) float64 {
	if t < TierBronze || t > TierPlatinum {
		return 1.0
	}
	return r.TierMultipliers[t]
}
