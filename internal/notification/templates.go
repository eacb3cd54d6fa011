package notification

import (
	"fmt"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
)

// typeTemplates 是各捐赠类型的模板消息
var typeTemplates = map[gamify.DonationType]string{
	gamify.TypeMonetary: "感谢你的捐款！每一份善意都在改变世界。",
	gamify.TypeGoods:    "感谢你捐出的物资！它们会去到最需要的人手中。",
	gamify.TypeCrypto:   "感谢你的加密货币捐赠！科技向善，有你一份。",
	gamify.TypeTime:     "感谢你付出的时间！陪伴是最珍贵的礼物。",
}

// TemplateMessage 返回一条不依赖外部服务的模板鼓励消息。
// 升级和新成就优先于普通感谢语。
func TemplateMessage(result *gamify.DonationResult) string {
	if result.TierUpgraded {
		return fmt.Sprintf("恭喜！你已晋升为%s捐赠者，感谢你一路以来的慷慨。", result.NewTier)
	}
	if len(result.NewlyUnlocked) > 0 {
		a := result.NewlyUnlocked[0]
		return fmt.Sprintf("%s 成就达成：%s！继续加油。", a.Emoji, a.Name)
	}
	if message, ok := typeTemplates[result.Type]; ok {
		return message
	}
	return "感谢你的捐赠！"
}
