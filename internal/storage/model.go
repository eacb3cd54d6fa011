package storage

import "gorm.io/gorm"

// Storage 定义了数据库中捐赠站点的数据结构
type Storage struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// StorageID 是站点的唯一字符串ID, 例如 "sydney-cbd"
	// 我们将使用它作为业务逻辑中的主键
	StorageID string `gorm:"uniqueIndex;not null" json:"id"`

	// Name 是站点的展示名称
	Name string `json:"name"`

	// Address 是站点的街道地址
	Address string `json:"address"`
	City    string `json:"city"`

	// Latitude / Longitude 是站点坐标
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Description 是站点的简介，来自导入的目录页面
	Description string `json:"description"`
}

// MissingItemRequest 记录站点当前紧缺的物资需求。
// 未满足的需求会提高站点的聚光曝光权重。
type MissingItemRequest struct {
	gorm.Model

	// StorageID 关联到Storage.StorageID
	StorageID string `gorm:"index;not null" json:"storageId"`

	// ItemName 是紧缺物资的名称，例如 "Winter Coats"
	ItemName string `gorm:"not null" json:"itemName"`

	// UrgencyLevel 取值1到3，3为最紧急
	UrgencyLevel int `gorm:"default:1" json:"urgencyLevel"`

	// RequestedQuantity 是站点希望收到的数量
	RequestedQuantity int `json:"requestedQuantity"`

	// BonusPoints 是需求页面上展示的额外激励积分
	BonusPoints int64 `gorm:"default:50" json:"bonusPoints"`

	// Fulfilled 标记需求是否已被满足，满足后不再参与权重计算
	Fulfilled bool `gorm:"default:false;index" json:"fulfilled"`
}
