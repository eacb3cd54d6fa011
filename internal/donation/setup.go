package donation

import (
	"fmt"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

// PrimeDB 负责初始化donation模块的数据库部分
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Donation{}, &AchievementUnlock{}); err != nil {
		return fmt.Errorf("无法迁移donation表: %w", err)
	}
	fmt.Println("Donation数据库表迁移成功。")
	return nil
}
