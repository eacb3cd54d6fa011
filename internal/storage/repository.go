package storage

import (
	"fmt"
	"sync"

	"github.com/SlpAus/goodwill-gym-backend/internal/platform/database"
	"github.com/SlpAus/goodwill-gym-backend/pkg/tree"
)

// StorageInfo 持有站点的静态数据，在程序启动时加载到内存中
type StorageInfo struct {
	Name        string
	Address     string
	City        string
	Latitude    float64
	Longitude   float64
	Description string
}

// repository 是storage模块的中央数据仓库
type repository struct {
	// 内存中的静态数据，启动后只读
	idToIndex   map[string]int
	indexToInfo []StorageInfo
	indexToID   []string

	// 各站点累计捐赠笔数、未满足的需求数与对应的聚光权重树
	totals       []float64
	openRequests []int64
	weightsTree  *tree.SegmentTree
	rwLock       sync.RWMutex
}

// globalRepository 是我们仓库的私有单例实例
var globalRepository *repository

// InitializeRepository 从SQLite加载静态站点数据，初始化内存仓库。
// 这个函数应该在应用启动时且仅调用一次。
func InitializeRepository() error {
	var storagesFromDB []Storage
	if err := database.DB.Order("id asc").Find(&storagesFromDB).Error; err != nil {
		return fmt.Errorf("无法从SQLite加载站点静态数据: %w", err)
	}

	size := len(storagesFromDB)
	if size == 0 {
		return fmt.Errorf("站点静态数据为空，无法初始化仓库，请先运行seeddb导入目录")
	}

	globalRepository = &repository{
		idToIndex:    make(map[string]int, size),
		indexToInfo:  make([]StorageInfo, size),
		indexToID:    make([]string, size),
		totals:       make([]float64, size),
		openRequests: make([]int64, size),
	}

	for i, s := range storagesFromDB {
		globalRepository.idToIndex[s.StorageID] = i
		globalRepository.indexToID[i] = s.StorageID
		globalRepository.indexToInfo[i] = StorageInfo{
			Name:        s.Name,
			Address:     s.Address,
			City:        s.City,
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
			Description: s.Description,
		}
	}

	segTree, err := tree.NewSegmentTree(size)
	if err != nil {
		return fmt.Errorf("无法创建线段树: %w", err)
	}
	// 树的初始权重将在WarmupCache阶段根据捐赠流水进行重建
	globalRepository.weightsTree = segTree

	fmt.Printf("站点仓库 (Repository) 初始化成功，加载了 %d 个站点。\n", size)
	return nil
}

// --- Public Methods for Concurrency Control ---

// RLockRepository 获取用于读取权重树的读锁。
func RLockRepository() {
	globalRepository.rwLock.RLock()
}

// RUnlockRepository 释放读锁。
func RUnlockRepository() {
	globalRepository.rwLock.RUnlock()
}

// LockRepository 获取用于写入权重树的写锁。
func LockRepository() {
	globalRepository.rwLock.Lock()
}

// UnlockRepository 释放写锁。
func UnlockRepository() {
	globalRepository.rwLock.Unlock()
}

// --- Public Methods for Data Access ---
// 这些方法是线程安全的，因为它们访问的是启动后只读的数据。

func GetStorageCount() int {
	if globalRepository == nil {
		return 0
	}
	return len(globalRepository.indexToInfo)
}

func GetStorageInfoByIndex(index int) (StorageInfo, bool) {
	if globalRepository == nil || index < 0 || index >= len(globalRepository.indexToInfo) {
		return StorageInfo{}, false
	}
	return globalRepository.indexToInfo[index], true
}

func GetStorageIDByIndex(index int) (string, bool) {
	if globalRepository == nil || index < 0 || index >= len(globalRepository.indexToID) {
		return "", false
	}
	return globalRepository.indexToID[index], true
}

func GetStorageIndexByID(id string) (int, bool) {
	if globalRepository == nil {
		return -1, false
	}
	index, ok := globalRepository.idToIndex[id]
	return index, ok
}

// Exists 检查一个站点ID是否在目录中。
func Exists(id string) bool {
	_, ok := GetStorageIndexByID(id)
	return ok
}

// --- Unsafe Methods for Internal Use ---
// 这些方法必须在手动获取锁之后才能被安全调用。

func GetTotalWeightUnsafe() float64 {
	return globalRepository.weightsTree.TotalSum()
}

func GetTotalDonationsUnsafe(index int) float64 {
	return globalRepository.totals[index]
}

func SetTotalDonationsUnsafe(index int, total float64) error {
	globalRepository.totals[index] = total
	weight := CalculateWeight(total, globalRepository.openRequests[index])
	return globalRepository.weightsTree.Update(index, weight)
}

func RebuildWeightsUnsafe(totals []float64, openRequests []int64) error {
	if len(totals) != len(globalRepository.totals) || len(openRequests) != len(globalRepository.openRequests) {
		return fmt.Errorf("权重重建数据长度不匹配: %d/%d != %d", len(totals), len(openRequests), len(globalRepository.totals))
	}
	copy(globalRepository.totals, totals)
	copy(globalRepository.openRequests, openRequests)
	weights := make([]float64, len(totals))
	for i, total := range totals {
		weights[i] = CalculateWeight(total, openRequests[i])
	}
	return globalRepository.weightsTree.Rebuild(weights)
}

func FindByWeightUnsafe(weight float64) (int, error) {
	return globalRepository.weightsTree.Find(weight)
}
