package gamify

import "errors"

// 引擎的错误分类。所有错误都以类型化的哨兵错误报告给调用者，
// 调用方可以用 errors.Is 来区分处理。
var (
	// ErrInvalidAmount 表示捐赠金额不是正数
	ErrInvalidAmount = errors.New("捐赠金额必须为正数")

	// ErrUnknownDonationType 表示捐赠类型不在固定枚举中
	ErrUnknownDonationType = errors.New("未知的捐赠类型")

	// ErrUserNotFound 表示持久层中不存在该用户
	ErrUserNotFound = errors.New("用户不存在")

	// ErrVersionConflict 表示检测到并发写入（期望版本不匹配）。
	// 这是唯一会被引擎自动重试的错误。
	ErrVersionConflict = errors.New("用户版本冲突")

	// ErrPersistenceUnavailable 表示持久层协作者不可用
	ErrPersistenceUnavailable = errors.New("持久层不可用")
)
