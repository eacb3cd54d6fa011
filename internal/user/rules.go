package user

import (
	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/config"
)

// ActiveRules 返回当前生效的积分规则。
// 以默认规则为底，配置文件可以覆盖基础分率和等级门槛。
func ActiveRules() gamify.Rules {
	rules := gamify.DefaultRules()
	if config.Cfg == nil {
		return rules
	}
	g := config.Cfg.Gamify
	if g.BasePointsRate > 0 {
		rules.BaseRate = g.BasePointsRate
	}
	if g.SilverThreshold > 0 {
		rules.TierThresholds[1] = g.SilverThreshold
	}
	if g.GoldThreshold > 0 {
		rules.TierThresholds[2] = g.GoldThreshold
	}
	if g.PlatinumThreshold > 0 {
		rules.TierThresholds[3] = g.PlatinumThreshold
	}
	return rules
}
