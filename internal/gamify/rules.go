package gamify

import "fmt"

// StreakStep 是连击乘数阶梯表中的一级。
// 表必须按MinStreak升序排列，乘数单调不减，且有明确的封顶值。
type StreakStep struct {
	MinStreak  int
	Multiplier float64
}

// Rules 汇集了积分引擎的全部可调参数。
// 所有处理共用同一份规则，避免各个请求处理器各自内联计算。
type Rules struct {
	// BaseRate 是每单位金额的基础积分数
	BaseRate float64

	// TypeMultipliers 是各捐赠类型的固定乘数
	TypeMultipliers map[DonationType]float64

	// TierThresholds 是各等级的累计捐赠额门槛（包含下界），必须严格递增
	TierThresholds [4]float64
	// TierMultipliers 是各等级的积分乘数
	TierMultipliers [4]float64

	// StreakSteps 是连击乘数的显式阶梯表
	StreakSteps []StreakStep
}

// DefaultRules 返回平台的标准规则。
// 配置文件可以覆盖其中的门槛和基础分率。
func DefaultRules() Rules {
	return Rules{
		BaseRate: 10,
		TypeMultipliers: map[DonationType]float64{
			TypeMonetary: 1.0,
			TypeGoods:    1.2,
			TypeCrypto:   1.5,
			TypeTime:     2.0,
		},
		TierThresholds:  [4]float64{0, 100, 500, 2000},
		TierMultipliers: [4]float64{1.0, 1.1, 1.2, 1.3},
		StreakSteps: []StreakStep{
			{MinStreak: 1, Multiplier: 1.0},
			{MinStreak: 2, Multiplier: 1.1},
			{MinStreak: 3, Multiplier: 1.2},
			{MinStreak: 5, Multiplier: 1.3},
			{MinStreak: 7, Multiplier: 1.5},
		},
	}
}

// Validate 检查规则的内部一致性。
func (r Rules) Validate() error {
	if r.BaseRate <= 0 {
		return fmt.Errorf("基础积分率必须为正数")
	}
	for i := 1; i < len(r.TierThresholds); i++ {
		if r.TierThresholds[i] <= r.TierThresholds[i-1] {
			return fmt.Errorf("等级门槛必须严格递增")
		}
	}
	if len(r.StreakSteps) == 0 {
		return fmt.Errorf("连击阶梯表不能为空")
	}
	for i := 1; i < len(r.StreakSteps); i++ {
		if r.StreakSteps[i].MinStreak <= r.StreakSteps[i-1].MinStreak {
			return fmt.Errorf("连击阶梯表必须按连击天数升序排列")
		}
		if r.StreakSteps[i].Multiplier < r.StreakSteps[i-1].Multiplier {
			return fmt.Errorf("连击乘数必须单调不减")
		}
	}
	return nil
}

// TypeMultiplier 返回指定捐赠类型的乘数；未知类型返回ErrUnknownDonationType。
func (r Rules) TypeMultiplier(t DonationType) (float64, error) {
	m, ok := r.TypeMultipliers[t]
	if !ok {
		return 0, ErrUnknownDonationType
	}
	return m, nil
}

// StreakMultiplier 按阶梯表查找连击乘数。
// 表是显式的查找结构，乘数在最高一级封顶，不随连击无限增长。
func (r Rules) StreakMultiplier(streak int) float64 {
	multiplier := 1.0
	for _, step := range r.StreakSteps {
		if streak < step.MinStreak {
			break
		}
		multiplier = step.Multiplier
	}
	return multiplier
}
