package gamify

import (
	"maps"
	"sync"
)

// memStore 是测试用的内存持久层实现。
// 它通过版本号条件写入模拟真实存储的乐观并发控制。
type memStore struct {
	mu        sync.Mutex
	users     map[string]UserState
	donations []DonationRecord
	unlocks   map[string][]string
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]UserState),
		unlocks: make(map[string][]string),
	}
}

// put 直接放入一个用户，用于测试准备
func (s *memStore) put(u UserState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = cloneUser(u)
}

func (s *memStore) LoadUser(userID string) (UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return UserState{}, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *memStore) SaveDonation(user UserState, expectedVersion uint64, record DonationRecord, unlockIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	// 条件写入：版本不匹配时拒绝且不做任何修改
	if current.Version != expectedVersion {
		return ErrVersionConflict
	}

	s.users[user.ID] = cloneUser(user)
	s.donations = append(s.donations, record)
	s.unlocks[user.ID] = append(s.unlocks[user.ID], unlockIDs...)
	return nil
}

// cloneUser 深拷贝用户快照，避免测试中的别名问题
func cloneUser(u UserState) UserState {
	c := u
	c.TypeCounts = maps.Clone(u.TypeCounts)
	c.VisitedStorages = maps.Clone(u.VisitedStorages)
	c.Unlocked = maps.Clone(u.Unlocked)
	return c
}

// conflictingStore 在前n次保存时人为制造版本冲突，用于测试重试逻辑
type conflictingStore struct {
	*memStore
	conflicts int
}

func (s *conflictingStore) SaveDonation(user UserState, expectedVersion uint64, record DonationRecord, unlockIDs []string) error {
	if s.conflicts > 0 {
		s.conflicts--
		return ErrVersionConflict
	}
	return s.memStore.SaveDonation(user, expectedVersion, record, unlockIDs)
}
