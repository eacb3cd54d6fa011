package donation

import (
	"fmt"
	"time"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/internal/platform/metadata"
	"github.com/SlpAus/goodwill-gym-backend/internal/user"
	"github.com/SlpAus/goodwill-gym-backend/pkg/lifecycle"
)

const resyncInterval = 10 * time.Minute // 定时校正频率

// StartResyncScheduler 启动一个后台Goroutine，定期用SQLite的权威数据
// 校正Redis中的汇总计数与排行榜，抹平尽力而为更新留下的偏差。
// 它接收一个lifecycle.Handle来管理其生命周期。
func StartResyncScheduler(handle *lifecycle.Handle) {
	defer handle.Close() // 确保在退出时通知管理器

	checkpoint, err := metadata.GetLastResyncDonationID(database.DB)
	if err != nil {
		fmt.Printf("聚合校正调度器: 读取检查点失败: %v\n", err)
	}
	fmt.Printf("聚合校正调度器已启动 (上次覆盖到流水 #%d)。\n", checkpoint)

	for {
		// 使用可中断的休眠来代替ticker。
		// 这使得整个循环可以在收到停机信号时立刻从休眠中唤醒并退出。
		if err := handle.Sleep(resyncInterval); err != nil {
			fmt.Printf("聚合校正调度器: 休眠被中断，正在关闭... (%v)\n", err)
			return
		}

		if !database.IsRedisHealthy() {
			fmt.Println("聚合校正调度器: 检测到Redis不可用，跳过本次校正。")
			continue
		}

		fmt.Println("聚合校正调度器: 正在执行定时校正...")
		if err := ResyncAggregates(); err != nil {
			fmt.Printf("聚合校正调度器错误: %v\n", err)
			continue
		}
		if err := RebuildLeaderboards(); err != nil {
			fmt.Printf("聚合校正调度器错误: 重建排行榜失败: %v\n", err)
			continue
		}
		if err := user.ResyncDirtyProfiles(); err != nil {
			fmt.Printf("聚合校正调度器错误: 校验用户概要失败: %v\n", err)
			continue
		}
		fmt.Println("聚合校正调度器: 校正成功。")
	}
}
