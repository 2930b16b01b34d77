// Package errors 跨层共享的持久化错误；各业务模块的错误定义在各自包内
package errors

import "errors"

var (
	// ErrOptimisticLock 条件更新未命中：记录仍在，但版本号或状态已被其他副本改变
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
	// ErrDuplicateKey 唯一约束冲突（多副本同时写入同一业务键）
	ErrDuplicateKey = errors.New("记录已存在")
)
