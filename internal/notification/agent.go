package notification

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/config"
)

// agent 封装了用于生成鼓励消息的Gemini客户端。
// 客户端不可用或生成失败时，所有调用都回退到本地模板，
// 捐赠处理本身永远不会因为消息生成而失败。
type agent struct {
	client *genai.Client
	model  string
}

var globalAgent *agent

// InitAgent 在应用启动时初始化Gemini客户端。
// 没有配置GOOGLE_API_KEY时跳过初始化，平台以纯模板模式运行。
func InitAgent() error {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		fmt.Println("未配置GOOGLE_API_KEY，鼓励消息将使用本地模板。")
		return nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return fmt.Errorf("无法创建Gemini客户端: %w", err)
	}

	model := "gemini-2.0-flash"
	if config.Cfg != nil && config.Cfg.Notification.Model != "" {
		model = config.Cfg.Notification.Model
	}

	globalAgent = &agent{client: client, model: model}
	fmt.Printf("鼓励消息生成器已启用，模型: %s\n", model)
	return nil
}

// MessageForDonation 为一次捐赠生成个性化的鼓励消息。
// 生成受超时约束，任何失败都回退到模板消息。
func MessageForDonation(ctx context.Context, result *gamify.DonationResult) string {
	fallback := TemplateMessage(result)
	if globalAgent == nil {
		return fallback
	}

	timeout := 3000 * time.Millisecond
	if config.Cfg != nil && config.Cfg.Notification.TimeoutMS > 0 {
		timeout = time.Duration(config.Cfg.Notification.TimeoutMS) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := globalAgent.client.Models.GenerateContent(ctx, globalAgent.model, genai.Text(buildPrompt(result)), nil)
	if err != nil {
		fmt.Printf("生成鼓励消息失败，使用模板回退: %v\n", err)
		return fallback
	}

	message := strings.TrimSpace(response.Text())
	if message == "" {
		return fallback
	}
	return message
}

// buildPrompt 把捐赠结果压缩成一段生成提示。
func buildPrompt(result *gamify.DonationResult) string {
	var b strings.Builder
	b.WriteString("你是一个慈善捐赠平台的助手。请为下面这位捐赠者写一句简短、真诚的中文鼓励消息（不超过40个字，不要使用引号）。\n")
	fmt.Fprintf(&b, "昵称: %s\n", result.DisplayName)
	fmt.Fprintf(&b, "本次捐赠: %.2f（类型: %s），获得 %d 积分\n", result.Amount, result.Type, result.PointsAwarded)
	fmt.Fprintf(&b, "当前等级: %s，连续捐赠 %d 天\n", result.NewTier, result.Streak)
	if result.TierUpgraded {
		fmt.Fprintf(&b, "刚刚从 %s 升级到 %s！\n", result.PreviousTier, result.NewTier)
	}
	for _, a := range result.NewlyUnlocked {
		fmt.Fprintf(&b, "刚刚解锁成就: %s %s\n", a.Emoji, a.Name)
	}
	return b.String()
}
