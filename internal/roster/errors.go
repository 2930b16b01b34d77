package roster

import (
	"errors"
	"fmt"
)

// ── 核心业务错误 ──
//
// 所有错误均返回给调用方，由外层翻译为用户可读信息；均不致命。
// AlreadyClaimed 是并发认领下的常规结果，不代表程序缺陷。

var (
	ErrInvalidDate         = errors.New("日期无效")
	ErrNotFound            = errors.New("记录不存在")
	ErrVenueNotFound       = fmt.Errorf("门店%w", ErrNotFound)
	ErrPoolNotFound        = fmt.Errorf("当日空班池%w", ErrNotFound)
	ErrSlotNotFound        = fmt.Errorf("空班%w", ErrNotFound)
	ErrAlreadyClaimed      = errors.New("空班已被认领")
	ErrDuplicateAssignment = errors.New("员工当日已有排班")
	// ErrNoCandidates 仅作提示：排班照常生成，全部需求进入空班池
	ErrNoCandidates = errors.New("当日无可用员工")
)

// ClaimError 认领失败详情，Unwrap 返回具体错误类别
type ClaimError struct {
	Kind       error
	VenueID    string
	Date       Date
	SlotID     string
	EmployeeID string
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("认领失败 venue=%s date=%s slot=%s employee=%s: %v",
		e.VenueID, e.Date, e.SlotID, e.EmployeeID, e.Kind)
}

func (e *ClaimError) Unwrap() error { return e.Kind }
