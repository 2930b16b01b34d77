package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/drostetom1-netizen/slimrooster-horeca/pkg/errors"
)

// ── 外部协作方 ──

// ReservationSource 预订人数来源（只读）；无记录返回 0
type ReservationSource interface {
	ReservationCount(ctx context.Context, venueID string, date Date) (int, error)
}

// VenueDirectory 门店员工名册（有序）；未知门店返回 ErrVenueNotFound
type VenueDirectory interface {
	EmployeeRoster(ctx context.Context, venueID string) ([]string, error)
}

// Journal 状态持久化钩子，在组合键临界区内、内存状态提交前调用；
// 返回错误时内存状态保持不变。
type Journal interface {
	SaveGeneration(ctx context.Context, plan *DayPlan) error
	SaveClaim(ctx context.Context, key DayKey, slot OpenShiftSlot, assignment ShiftAssignment) error
}

type nopJournal struct{}

func (nopJournal) SaveGeneration(context.Context, *DayPlan) error { return nil }
func (nopJournal) SaveClaim(context.Context, DayKey, OpenShiftSlot, ShiftAssignment) error {
	return nil
}

// ── Engine ──

// dayState 单个 (门店, 日期) 的状态与互斥锁
type dayState struct {
	mu    sync.Mutex
	plan  *DayPlan
	index map[string]int // slotID → plan.Slots 下标
}

// Engine 排班生成与空班认领协调器
//
// 并发模型：每个 DayKey 一把锁；不同键互不阻塞，同键上的生成与认领串行。
// 全局锁 mu 只保护 days 映射本身的读写。
type Engine struct {
	policy       Policy
	estimator    *DemandEstimator
	availability *AvailabilityIndex
	reservations ReservationSource
	directory    VenueDirectory
	journal      Journal
	now          func() time.Time
	newID        func() string

	mu   sync.Mutex
	days map[DayKey]*dayState
}

// Option Engine 可选配置
type Option func(*Engine)

// WithJournal 设置持久化钩子
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		if j != nil {
			e.journal = j
		}
	}
}

// WithClock 替换时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator 替换空班 ID 生成器
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// NewEngine 创建协调器
func NewEngine(
	policy Policy,
	estimator *DemandEstimator,
	availability *AvailabilityIndex,
	reservations ReservationSource,
	directory VenueDirectory,
	opts ...Option,
) *Engine {
	e := &Engine{
		policy:       policy,
		estimator:    estimator,
		availability: availability,
		reservations: reservations,
		directory:    directory,
		journal:      nopJournal{},
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
		days:         make(map[DayKey]*dayState),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy 当前策略
func (e *Engine) Policy() Policy { return e.policy }

// Availability 可用性索引
func (e *Engine) Availability() *AvailabilityIndex { return e.availability }

// CheckDate 按策略校验日期
func (e *Engine) CheckDate(d Date) error {
	return e.policy.CheckDate(d, e.now())
}

// Today 策略时区下的今天
func (e *Engine) Today() Date {
	return DateOf(e.now().In(e.policy.location()))
}

func (e *Engine) state(key DayKey) *dayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.days[key]
	if !ok {
		st = &dayState{}
		e.days[key] = st
	}
	return st
}

func (e *Engine) lookup(key DayKey) (*dayState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.days[key]
	return st, ok
}

// EstimateDemand 估算 (门店, 日期) 的需求人数
func (e *Engine) EstimateDemand(ctx context.Context, venueID string, date Date) (int, error) {
	if err := e.CheckDate(date); err != nil {
		return 0, err
	}
	if _, err := e.directory.EmployeeRoster(ctx, venueID); err != nil {
		return 0, err
	}
	return e.estimate(ctx, venueID, date)
}

func (e *Engine) estimate(ctx context.Context, venueID string, date Date) (int, error) {
	count, err := e.reservations.ReservationCount(ctx, venueID, date)
	if err != nil {
		return 0, fmt.Errorf("读取预订人数失败: %w", err)
	}
	return e.estimator.Estimate(venueID, date, count), nil
}

// AvailableEmployees 门店当日可用员工（按名册顺序）
func (e *Engine) AvailableEmployees(ctx context.Context, venueID string, date Date) ([]string, error) {
	employees, err := e.directory.EmployeeRoster(ctx, venueID)
	if err != nil {
		return nil, err
	}
	return e.availability.Available(employees, date), nil
}

// Generate 生成 (门店, 日期) 的排班与空班池，整体覆盖旧结果；旧空班 ID 随即失效
func (e *Engine) Generate(ctx context.Context, venueID string, date Date) (*Roster, error) {
	if err := e.CheckDate(date); err != nil {
		return nil, err
	}

	candidates, err := e.AvailableEmployees(ctx, venueID, date)
	if err != nil {
		return nil, err
	}
	demand, err := e.estimate(ctx, venueID, date)
	if err != nil {
		return nil, err
	}

	alloc := e.policy.Allocate(demand, candidates)
	plan := &DayPlan{
		VenueID:     venueID,
		Date:        date,
		Generation:  uuid.New().String(),
		Demand:      demand,
		Candidates:  len(candidates),
		Assignments: alloc.Assignments,
		Slots:       make([]OpenShiftSlot, 0, alloc.OpenCount),
		GeneratedAt: e.now(),
	}
	for i := 0; i < alloc.OpenCount; i++ {
		plan.Slots = append(plan.Slots, OpenShiftSlot{
			ID:      e.newID(),
			VenueID: venueID,
			Date:    date,
			Shift:   e.policy.Shift,
			Status:  SlotOpen,
		})
	}

	st := e.state(plan.Key())
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := e.journal.SaveGeneration(ctx, plan); err != nil {
		return nil, fmt.Errorf("保存排班失败: %w", err)
	}
	st.install(plan)

	result := &Roster{DayPlan: plan.Clone()}
	if len(candidates) == 0 && demand > 0 {
		result.Warnings = append(result.Warnings, ErrNoCandidates)
	}
	return result, nil
}

// Claim 员工认领空班；同一空班并发认领时恰好一方成功，其余得到 ErrAlreadyClaimed
func (e *Engine) Claim(ctx context.Context, venueID string, date Date, slotID, employeeID string) (ShiftAssignment, error) {
	fail := func(kind error) (ShiftAssignment, error) {
		return ShiftAssignment{}, &ClaimError{Kind: kind, VenueID: venueID, Date: date, SlotID: slotID, EmployeeID: employeeID}
	}

	if err := e.CheckDate(date); err != nil {
		return fail(err)
	}

	key := DayKey{VenueID: venueID, Date: date}
	st, ok := e.lookup(key)
	if !ok {
		return fail(ErrPoolNotFound)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.plan == nil {
		return fail(ErrPoolNotFound)
	}
	i, ok := st.index[slotID]
	if !ok {
		return fail(ErrSlotNotFound)
	}
	slot := st.plan.Slots[i]
	if slot.Status != SlotOpen {
		return fail(ErrAlreadyClaimed)
	}
	if st.plan.HasEmployee(employeeID) {
		return fail(ErrDuplicateAssignment)
	}

	now := e.now()
	slot.Status = SlotClaimed
	slot.ClaimedBy = employeeID
	slot.ClaimedAt = &now
	assignment := ShiftAssignment{EmployeeID: employeeID, Shift: slot.Shift, SlotID: slot.ID}

	if err := e.journal.SaveClaim(ctx, key, slot, assignment); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			return fail(ErrAlreadyClaimed)
		case errors.Is(err, ErrDuplicateAssignment):
			return fail(ErrDuplicateAssignment)
		case errors.Is(err, ErrNotFound):
			// 持久层已是新批次，丢弃本地过期计划，下次读取时重新加载
			st.plan = nil
			st.index = nil
			return fail(ErrSlotNotFound)
		}
		return ShiftAssignment{}, fmt.Errorf("保存认领失败: %w", err)
	}

	st.plan.Slots[i] = slot
	st.plan.Assignments = append(st.plan.Assignments, assignment)
	return assignment, nil
}

// Get 返回 (门店, 日期) 当前排班快照
func (e *Engine) Get(venueID string, date Date) (*Roster, error) {
	st, ok := e.lookup(DayKey{VenueID: venueID, Date: date})
	if !ok {
		return nil, ErrPoolNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.plan == nil {
		return nil, ErrPoolNotFound
	}
	return &Roster{DayPlan: st.plan.Clone()}, nil
}

// ShiftsFor 返回员工在 [from, to] 区间内的全部排班（按日期升序）
func (e *Engine) ShiftsFor(employeeID string, from, to Date) []DayShift {
	e.mu.Lock()
	states := make([]*dayState, 0, len(e.days))
	for key, st := range e.days {
		if key.Date.Before(from) || key.Date.After(to) {
			continue
		}
		states = append(states, st)
	}
	e.mu.Unlock()

	var result []DayShift
	for _, st := range states {
		st.mu.Lock()
		if st.plan != nil {
			for _, a := range st.plan.Assignments {
				if a.EmployeeID == employeeID {
					result = append(result, DayShift{VenueID: st.plan.VenueID, Date: st.plan.Date, Assignment: a})
				}
			}
		}
		st.mu.Unlock()
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].VenueID < result[j].VenueID
	})
	return result
}

// DayShift 带门店与日期的排班项
type DayShift struct {
	VenueID    string
	Date       Date
	Assignment ShiftAssignment
}

// Restore 从持久层回填计划（启动时调用），不经过 Journal
func (e *Engine) Restore(plan *DayPlan) {
	st := e.state(plan.Key())
	st.mu.Lock()
	defer st.mu.Unlock()
	st.install(plan.Clone())
}

// RestoreIfAbsent 仅在该键尚无计划时回填，返回当前生效的快照
func (e *Engine) RestoreIfAbsent(plan *DayPlan) *Roster {
	st := e.state(plan.Key())
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.plan == nil {
		st.install(plan.Clone())
	}
	return &Roster{DayPlan: st.plan.Clone()}
}

func (st *dayState) install(plan *DayPlan) {
	index := make(map[string]int, len(plan.Slots))
	for i, s := range plan.Slots {
		index[s.ID] = i
	}
	st.plan = plan
	st.index = index
}
