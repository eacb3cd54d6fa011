package startup

import (
	"fmt"

	"github.com/SlpAus/goodwill-gym-backend/internal/donation"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/metadata"
	"github.com/SlpAus/goodwill-gym-backend/internal/storage"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeCachedDB(); err != nil {
		return err
	}
	if err := user.PrimeCachedDB(); err != nil {
		return err
	}
	if err := donation.PrimeDB(); err != nil {
		return err
	}
	if err := storage.PrimeCachedDB(); err != nil {
		return err
	}
	if err := donation.RebuildLeaderboards(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	if err := metadata.WarmupCache(); err != nil {
		return err
	}

	err := func() error {
		user.LockRepository()
		defer user.UnlockRepository()
		if err := user.WarmupCache(); err != nil {
			return err
		}

		if err := storage.WarmupCache(); err != nil {
			return err
		}

		return donation.RebuildLeaderboards()
	}()
	if err != nil {
		return err
	}

	// 重建后立刻做一次聚合校正，把检查点推进到当前流水
	fmt.Println("缓存热重建完成，正在校正汇总计数...")
	if err := donation.ResyncAggregates(); err != nil {
		fmt.Printf("警告: 缓存热重建后的聚合校正失败: %v\n", err)
	}

	return nil
}
