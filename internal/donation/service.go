package donation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/goodwill-gym-backend/internal/gamify"
	"github.com/SlpAus/goodwill-gym-backend/internal/leaderboard"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/metadata"
	"github.com/SlpAus/goodwill-gym-backend/internal/notification"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/storage"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
	"github.com/SlpAus/goodwill-gym-backend/pkg/token"
)

// ErrUnknownStorage 表示请求引用了目录中不存在的站点
var ErrUnknownStorage = errors.New("未知的捐赠站点")

// ProcessedDonation 捆绑了一次捐赠处理的完整输出：
// 引擎结果、签名回执和给用户的鼓励消息。
type ProcessedDonation struct {
	Result  *gamify.DonationResult
	Receipt string
	Message string
}

// ProcessDonation 是捐赠写路径的总入口。
// 它组装引擎和存储，更新Redis中的排行与汇总计数，
// 并在一切成功后签发回执、生成鼓励消息。
func ProcessDonation(ctx context.Context, userID string, amount float64, donationType gamify.DonationType, storageID string, latitude, longitude float64) (*ProcessedDonation, error) {
	registered, err := user.IsUserRegistered(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gamify.ErrPersistenceUnavailable, err)
	}
	if !registered {
		return nil, gamify.ErrUserNotFound
	}

	// 没有显式站点但带坐标的捐赠，按签到半径归属到最近的站点
	if storageID == "" {
		storageID = storage.ResolveCheckin(latitude, longitude)
	} else if !storage.Exists(storageID) {
		return nil, fmt.Errorf("%w: 未知的站点ID %s", ErrUnknownStorage, storageID)
	}

	// 引擎不读系统时钟，业务时间在入口处统一注入
	timestamp := time.Now().UTC()

	catalog := gamify.DefaultCatalog()
	store := newGormStore(database.DB, catalog, latitude, longitude)
	engine := gamify.NewEngine(store, user.ActiveRules(), catalog)

	result, err := engine.ProcessDonation(userID, amount, donationType, timestamp, storageID)
	if err != nil {
		return nil, err
	}

	// 落库成功之后的缓存更新都是尽力而为：
	// 失败只记日志，聚合回写任务会最终校正Redis。
	if err := updateAggregates(result, storageID); err != nil {
		fmt.Printf("更新Redis聚合数据失败: %v\n", err)
	}
	if storageID != "" {
		storage.NoteDonation(storageID)
	}
	if err := refreshProfile(userID); err != nil {
		fmt.Printf("更新用户概要缓存失败: %v\n", err)
	}

	receipt, err := token.SignReceipt(token.ReceiptPayload{
		DonationID: store.createdDonationID,
		UserID:     userID,
		Points:     result.PointsAwarded + result.AchievementPoints,
	})
	if err != nil {
		fmt.Printf("签发捐赠回执失败: %v\n", err)
	}

	message := notification.MessageForDonation(ctx, result)

	return &ProcessedDonation{
		Result:  result,
		Receipt: receipt,
		Message: message,
	}, nil
}

// updateAggregates 更新排行榜与全站汇总计数。
func updateAggregates(result *gamify.DonationResult, storageID string) error {
	earned := result.PointsAwarded + result.AchievementPoints
	if err := leaderboard.ApplyDonation(result.UserID, result.TotalPoints, storageID, earned); err != nil {
		return err
	}

	pipe := database.RDB.TxPipeline()
	pipe.IncrBy(database.Ctx, metadata.RedisTotalDonationsKey, 1)
	pipe.IncrBy(database.Ctx, metadata.RedisTotalPointsKey, earned)
	pipe.IncrByFloat(database.Ctx, metadata.RedisTotalAmountKey, result.Amount)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("更新全站汇总计数失败: %w", err)
	}
	return nil
}

// refreshProfile 用落库后的权威记录刷新Redis概要缓存。
func refreshProfile(userID string) error {
	u, err := user.GetUserByID(userID)
	if err != nil {
		return err
	}
	achievements, err := CountUnlocks(userID)
	if err != nil {
		return err
	}
	return user.RefreshProfileCache(u, achievements)
}

// CountUnlocks 统计用户已解锁的成就数量。
func CountUnlocks(userID string) (int, error) {
	var count int64
	if err := database.DB.Model(&AchievementUnlock{}).
		Where("user_uuid = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("无法统计用户 %s 的成就数: %w", userID, err)
	}
	return int(count), nil
}
