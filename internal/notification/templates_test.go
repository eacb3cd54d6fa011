package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
)

func TestTemplateMessagePrecedence(t *testing.T) {
	// 升级消息优先于成就和类型模板
	result := &gamify.DonationResult{
		Type:         gamify.TypeMonetary,
		TierUpgraded: true,
		NewTier:      gamify.TierGold,
		NewlyUnlocked: []gamify.UnlockedAchievement{
			{ID: "first_donation", Name: "First Steps", Emoji: "🎉"},
		},
	}
	assert.Contains(t, TemplateMessage(result), "Gold")

	// 没有升级时，成就消息优先
	result.TierUpgraded = false
	assert.Contains(t, TemplateMessage(result), "First Steps")

	// 普通捐赠落到类型模板
	result.NewlyUnlocked = nil
	for donationType := range map[gamify.DonationType]bool{
		gamify.TypeMonetary: true,
		gamify.TypeGoods:    true,
		gamify.TypeCrypto:   true,
		gamify.TypeTime:     true,
	} {
		result.Type = donationType
		assert.NotEmpty(t, TemplateMessage(result))
	}

	// 未知类型也有兜底消息
	result.Type = gamify.DonationType("mystery")
	assert.Equal(t, "感谢你的捐赠！", TemplateMessage(result))
}

func TestMessageForDonationFallsBackWithoutAgent(t *testing.T) {
	globalAgent = nil
	result := &gamify.DonationResult{Type: gamify.TypeGoods}
	assert.Equal(t, TemplateMessage(result), MessageForDonation(context.Background(), result))
}
