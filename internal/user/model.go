package user

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// User 定义了用户在SQLite数据库中的持久化模型。
// 它是积分引擎读写的权威状态，Redis中的排行与统计都由它重建。
type User struct {
	// UUID 是用户的主键，来自客户端Cookie。
	UUID string `gorm:"primarykey;type:varchar(36)"`

	// DisplayName 是用户展示用的昵称。
	DisplayName string
	Email       string `gorm:"index"`

	// LifetimeDonated 是用户累计捐赠金额，等级完全由它决定。
	LifetimeDonated float64

	// TotalPoints 记录了用户累计获得的积分（含成就奖励）。
	TotalPoints int64

	// TotalDonations 记录了用户完成的捐赠总笔数。
	TotalDonations int

	// Streak 是当前连续捐赠天数，LastDonationDate 是连击对应的最后一个自然日（UTC零点）。
	Streak           int
	LastDonationDate time.Time

	// TypeCountsJSON 与 VisitedStoragesJSON 以JSON文本持久化引擎需要的两张计数表。
	TypeCountsJSON      string `gorm:"column:type_counts"`
	VisitedStoragesJSON string `gorm:"column:visited_storages"`

	// Version 是乐观锁版本号，每次成功记账加1。
	Version uint64

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// DecodeTypeCounts 反序列化捐赠类型计数，空字符串视为空表。
func (u *User) DecodeTypeCounts() (map[string]int64, error) {
	counts := map[string]int64{}
	if u.TypeCountsJSON == "" {
		return counts, nil
	}
	if err := json.Unmarshal([]byte(u.TypeCountsJSON), &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// DecodeVisitedStorages 反序列化去过的站点集合，空字符串视为空集。
func (u *User) DecodeVisitedStorages() (map[string]bool, error) {
	visited := map[string]bool{}
	if u.VisitedStoragesJSON == "" {
		return visited, nil
	}
	if err := json.Unmarshal([]byte(u.VisitedStoragesJSON), &visited); err != nil {
		return nil, err
	}
	return visited, nil
}

// EncodeCounters 将两张计数表写回JSON列。
func (u *User) EncodeCounters(typeCounts map[string]int64, visited map[string]bool) error {
	tc, err := json.Marshal(typeCounts)
	if err != nil {
		return err
	}
	vs, err := json.Marshal(visited)
	if err != nil {
		return err
	}
	u.TypeCountsJSON = string(tc)
	u.VisitedStoragesJSON = string(vs)
	return nil
}
