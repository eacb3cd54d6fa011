package storage

import (
	"fmt"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
)

// PrimeCachedDB 负责初始化storage模块的数据库和内存仓库
func PrimeCachedDB() error {
	// 1. 迁移数据库表结构
	if err := migrateDB(); err != nil {
		return err
	}
	// 2. 从数据库加载静态数据到内存仓库
	if err := InitializeRepository(); err != nil {
		return err
	}
	// 3. 根据捐赠流水重建聚光权重树
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Storage{}, &MissingItemRequest{}); err != nil {
		return fmt.Errorf("无法迁移storage相关表: %w", err)
	}
	fmt.Println("Storage数据库表迁移成功。")
	return nil
}
