package roster

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/drostetom1-netizen/slimrooster-horeca/pkg/errors"
)

// ════════════════════════════════════════════════════════════
// Generate 测试
// ════════════════════════════════════════════════════════════

func TestEngine_Generate_SaturdayScenario(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	env.allAvailable(testSaturday)
	env.reservations.counts[DayKey{"venue-1", testSaturday}] = 40

	demand, err := env.engine.EstimateDemand(context.Background(), "venue-1", testSaturday)
	if err != nil {
		t.Fatalf("EstimateDemand 应成功: %v", err)
	}
	if demand != 14 {
		t.Fatalf("期望需求 14，实际 %d", demand)
	}

	r, err := env.engine.Generate(context.Background(), "venue-1", testSaturday)
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}
	if len(r.Assignments) != 4 {
		t.Errorf("期望排班 4 人，实际 %d", len(r.Assignments))
	}
	if len(r.OpenSlots()) != 10 {
		t.Errorf("期望空班 10 个，实际 %d", len(r.OpenSlots()))
	}
	if len(r.Assignments)+len(r.OpenSlots()) != demand {
		t.Errorf("排班数 + 空班数应等于需求 %d", demand)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("不应有提示: %v", r.Warnings)
	}

	ids := map[string]bool{}
	for _, s := range r.Slots {
		if s.Status != SlotOpen {
			t.Errorf("新空班应为 open，实际 %s", s.Status)
		}
		if ids[s.ID] {
			t.Errorf("空班 ID 重复: %s", s.ID)
		}
		ids[s.ID] = true
	}
	if env.journal.generations != 1 {
		t.Errorf("期望持久化 1 次，实际 %d", env.journal.generations)
	}
}

func TestEngine_Generate_NoCandidates(t *testing.T) {
	env := newTestEnv(FixedSignal(0))

	r, err := env.engine.Generate(context.Background(), "venue-1", testTuesday)
	if err != nil {
		t.Fatalf("无候选人时生成仍应成功: %v", err)
	}
	if len(r.Assignments) != 0 {
		t.Errorf("期望无排班，实际 %d", len(r.Assignments))
	}
	if len(r.OpenSlots()) != 5 {
		t.Errorf("期望全部 5 人需求转空班，实际 %d", len(r.OpenSlots()))
	}
	if len(r.Warnings) != 1 || !errors.Is(r.Warnings[0], ErrNoCandidates) {
		t.Errorf("期望 ErrNoCandidates 提示，实际 %v", r.Warnings)
	}
}

func TestEngine_Generate_EmptyAvailabilityExcludesEmployee(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	env.allAvailable(testSaturday)
	env.engine.Availability().Set("emp-a", []Date{})

	r, err := env.engine.Generate(context.Background(), "venue-1", testSaturday)
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}
	for _, a := range r.Assignments {
		if a.EmployeeID == "emp-a" {
			t.Error("清空可用性的员工不应被排班")
		}
	}
	if len(r.Assignments) != 3 {
		t.Errorf("期望排班 3 人，实际 %d", len(r.Assignments))
	}
}

func TestEngine_Generate_Errors(t *testing.T) {
	env := newTestEnv(FixedSignal(0))

	if _, err := env.engine.Generate(context.Background(), "unknown", testSaturday); !errors.Is(err, ErrNotFound) {
		t.Errorf("未知门店期望 ErrNotFound，实际: %v", err)
	}
	if _, err := env.engine.Generate(context.Background(), "venue-1", DateOf(testToday).AddDays(-1)); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("过去日期期望 ErrInvalidDate，实际: %v", err)
	}

	env.reservations.err = errors.New("db down")
	if _, err := env.engine.Generate(context.Background(), "venue-1", testSaturday); err == nil {
		t.Error("预订来源出错时应返回错误")
	}
}

func TestEngine_Generate_JournalFailureKeepsPreviousState(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	env.allAvailable(testSaturday)

	first, err := env.engine.Generate(context.Background(), "venue-1", testSaturday)
	if err != nil {
		t.Fatalf("首次生成应成功: %v", err)
	}

	env.journal.genErr = errors.New("write failed")
	if _, err := env.engine.Generate(context.Background(), "venue-1", testSaturday); err == nil {
		t.Fatal("持久化失败时应返回错误")
	}

	current, err := env.engine.Get("venue-1", testSaturday)
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if current.Generation != first.Generation {
		t.Error("持久化失败不应替换已有排班")
	}
}

func TestEngine_Regenerate_InvalidatesOldSlots(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	env.allAvailable(testSaturday)
	env.reservations.counts[DayKey{"venue-1", testSaturday}] = 40

	first, _ := env.engine.Generate(context.Background(), "venue-1", testSaturday)
	oldSlot := first.Slots[0].ID

	second, err := env.engine.Generate(context.Background(), "venue-1", testSaturday)
	if err != nil {
		t.Fatalf("重新生成应成功: %v", err)
	}
	if second.Generation == first.Generation {
		t.Error("重新生成应产生新的 generation")
	}
	for _, s := range second.Slots {
		if s.ID == oldSlot {
			t.Fatal("空班 ID 不应复用")
		}
	}

	_, err = env.engine.Claim(context.Background(), "venue-1", testSaturday, oldSlot, "emp-x")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("旧空班认领期望 ErrNotFound，实际: %v", err)
	}
	var ce *ClaimError
	if !errors.As(err, &ce) || ce.SlotID != oldSlot {
		t.Errorf("期望 *ClaimError 且携带 slot，实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Claim 测试
// ════════════════════════════════════════════════════════════

func generateSaturday(t *testing.T, env *testEnv) *Roster {
	t.Helper()
	env.allAvailable(testSaturday)
	env.reservations.counts[DayKey{"venue-1", testSaturday}] = 40
	r, err := env.engine.Generate(context.Background(), "venue-1", testSaturday)
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}
	return r
}

func TestEngine_Claim_Success(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	r := generateSaturday(t, env)
	slotID := r.Slots[0].ID

	a, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, slotID, "emp-e")
	if err != nil {
		t.Fatalf("Claim 应成功: %v", err)
	}
	if a.EmployeeID != "emp-e" || a.SlotID != slotID || a.Shift != env.engine.Policy().Shift {
		t.Errorf("认领结果错误: %+v", a)
	}

	current, _ := env.engine.Get("venue-1", testSaturday)
	if len(current.Assignments) != 5 {
		t.Errorf("期望排班 5 人，实际 %d", len(current.Assignments))
	}
	if len(current.OpenSlots()) != 9 {
		t.Errorf("期望剩余空班 9 个，实际 %d", len(current.OpenSlots()))
	}
	for _, s := range current.Slots {
		if s.ID == slotID && (s.Status != SlotClaimed || s.ClaimedBy != "emp-e" || s.ClaimedAt == nil) {
			t.Errorf("空班状态未更新: %+v", s)
		}
	}

	// 已认领为终态
	if _, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, slotID, "emp-f"); !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("重复认领期望 ErrAlreadyClaimed，实际: %v", err)
	}
}

func TestEngine_Claim_DuplicateAssignment(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	r := generateSaturday(t, env)

	_, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, r.Slots[0].ID, "emp-a")
	if !errors.Is(err, ErrDuplicateAssignment) {
		t.Errorf("已排班员工认领期望 ErrDuplicateAssignment，实际: %v", err)
	}

	current, _ := env.engine.Get("venue-1", testSaturday)
	if len(current.Assignments) != 4 || len(current.OpenSlots()) != 10 {
		t.Error("失败的认领不应改变排班")
	}

	if _, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, r.Slots[1].ID, "emp-e"); err != nil {
		t.Fatalf("首次认领应成功: %v", err)
	}
	if _, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, r.Slots[2].ID, "emp-e"); !errors.Is(err, ErrDuplicateAssignment) {
		t.Errorf("同日第二次认领期望 ErrDuplicateAssignment，实际: %v", err)
	}
}

func TestEngine_Claim_NotFound(t *testing.T) {
	env := newTestEnv(FixedSignal(0))

	if _, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, "slot-1", "emp-e"); !errors.Is(err, ErrPoolNotFound) {
		t.Errorf("未生成时期望 ErrPoolNotFound，实际: %v", err)
	}

	generateSaturday(t, env)
	if _, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, "no-such-slot", "emp-e"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("未知空班期望 ErrSlotNotFound，实际: %v", err)
	}
}

func TestEngine_Claim_OptimisticLockMapsToAlreadyClaimed(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	r := generateSaturday(t, env)

	env.journal.claimErr = pkgerrors.ErrOptimisticLock
	if _, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, r.Slots[0].ID, "emp-e"); !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("期望 ErrAlreadyClaimed，实际: %v", err)
	}

	env.journal.claimErr = errors.New("write failed")
	_, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, r.Slots[0].ID, "emp-e")
	if err == nil || errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("普通持久化错误应原样返回，实际: %v", err)
	}

	current, _ := env.engine.Get("venue-1", testSaturday)
	if len(current.OpenSlots()) != 10 {
		t.Error("持久化失败时空班不应被占用")
	}
}

func TestEngine_Claim_JournalOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		journalErr error
		want       error
		dropsPlan  bool
	}{
		{"其他副本已认领", pkgerrors.ErrOptimisticLock, ErrAlreadyClaimed, false},
		{"其他副本已重新生成", ErrSlotNotFound, ErrSlotNotFound, true},
		{"员工已由其他副本排入", ErrDuplicateAssignment, ErrDuplicateAssignment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(FixedSignal(0))
			r := generateSaturday(t, env)
			env.journal.claimErr = tt.journalErr

			_, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, r.Slots[0].ID, "emp-e")
			if !errors.Is(err, tt.want) {
				t.Fatalf("期望 %v，实际: %v", tt.want, err)
			}
			var claimErr *ClaimError
			if !errors.As(err, &claimErr) {
				t.Errorf("期望 *ClaimError，实际 %T", err)
			}

			_, getErr := env.engine.Get("venue-1", testSaturday)
			if tt.dropsPlan && !errors.Is(getErr, ErrPoolNotFound) {
				t.Errorf("过期计划应被丢弃，实际: %v", getErr)
			}
			if !tt.dropsPlan && getErr != nil {
				t.Errorf("计划应保留，实际: %v", getErr)
			}
		})
	}
}

func TestEngine_Claim_ConcurrentSameSlot(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	r := generateSaturday(t, env)
	slotID := r.Slots[0].ID

	const claimants = 32
	var (
		wg        sync.WaitGroup
		successes int32
		conflicts int32
		start     = make(chan struct{})
	)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := env.engine.Claim(context.Background(), "venue-1", testSaturday, slotID, "claimant-"+string(rune('A'+i)))
			switch {
			case err == nil:
				atomic.AddInt32(&successes, 1)
			case errors.Is(err, ErrAlreadyClaimed):
				atomic.AddInt32(&conflicts, 1)
			default:
				t.Errorf("意外错误: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	if successes != 1 {
		t.Errorf("期望恰好 1 次成功，实际 %d", successes)
	}
	if conflicts != claimants-1 {
		t.Errorf("期望 %d 次 ErrAlreadyClaimed，实际 %d", claimants-1, conflicts)
	}

	current, _ := env.engine.Get("venue-1", testSaturday)
	bySlot := 0
	for _, a := range current.Assignments {
		if a.SlotID == slotID {
			bySlot++
		}
	}
	if bySlot != 1 {
		t.Errorf("该空班应恰好产生 1 条排班，实际 %d", bySlot)
	}
}

func TestEngine_Claim_ConcurrentWithRegenerate(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	r := generateSaturday(t, env)

	var wg sync.WaitGroup
	results := make([]error, len(r.Slots))
	for i, s := range r.Slots {
		wg.Add(1)
		go func(i int, slotID string) {
			defer wg.Done()
			_, results[i] = env.engine.Claim(context.Background(), "venue-1", testSaturday, slotID, "late-"+slotID)
		}(i, s.ID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := env.engine.Generate(context.Background(), "venue-1", testSaturday); err != nil {
			t.Errorf("重新生成应成功: %v", err)
		}
	}()
	wg.Wait()

	for _, err := range results {
		if err != nil && !errors.Is(err, ErrNotFound) {
			t.Errorf("与重新生成竞争的认领只能成功或 NotFound，实际: %v", err)
		}
	}

	// 重新生成后的状态中不含任何旧空班 ID
	current, _ := env.engine.Get("venue-1", testSaturday)
	old := map[string]bool{}
	for _, s := range r.Slots {
		old[s.ID] = true
	}
	for _, s := range current.Slots {
		if old[s.ID] {
			t.Fatalf("旧空班 %s 不应出现在新空班池中", s.ID)
		}
	}
}

func TestEngine_DifferentKeysAreIndependent(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	env.directory.venues["venue-2"] = []string{"emp-z"}
	generateSaturday(t, env)

	if _, err := env.engine.Get("venue-2", testSaturday); !errors.Is(err, ErrPoolNotFound) {
		t.Errorf("其他门店不应受影响，实际: %v", err)
	}
	if _, err := env.engine.Get("venue-1", testTuesday); !errors.Is(err, ErrPoolNotFound) {
		t.Errorf("其他日期不应受影响，实际: %v", err)
	}
}

func TestEngine_RestoreAndShiftsFor(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	plan := &DayPlan{
		VenueID:     "venue-1",
		Date:        testTuesday,
		Generation:  "gen-1",
		Demand:      2,
		Assignments: []ShiftAssignment{{EmployeeID: "emp-a", Shift: DefaultPolicy().Shift}},
		Slots: []OpenShiftSlot{{
			ID: "restored-1", VenueID: "venue-1", Date: testTuesday,
			Shift: DefaultPolicy().Shift, Status: SlotOpen,
		}},
	}
	env.engine.Restore(plan)

	if _, err := env.engine.Claim(context.Background(), "venue-1", testTuesday, "restored-1", "emp-b"); err != nil {
		t.Fatalf("回填后的空班应可认领: %v", err)
	}
	if plan.Slots[0].Status != SlotOpen {
		t.Error("Restore 应拷贝入参，不应修改调用方数据")
	}

	generateSaturday(t, env)
	shifts := env.engine.ShiftsFor("emp-a", testTuesday, testSaturday)
	if len(shifts) != 2 {
		t.Fatalf("期望 emp-a 有 2 个班次，实际 %d", len(shifts))
	}
	if shifts[0].Date != testTuesday || shifts[1].Date != testSaturday {
		t.Errorf("班次应按日期升序: %+v", shifts)
	}
	if got := env.engine.ShiftsFor("emp-a", testSaturday.AddDays(1), testSaturday.AddDays(7)); len(got) != 0 {
		t.Errorf("区间外不应返回班次，实际 %d", len(got))
	}
}

func TestEngine_RestoreIfAbsentKeepsLiveState(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	env.allAvailable(testSaturday)

	live, err := env.engine.Generate(context.Background(), "venue-1", testSaturday)
	if err != nil {
		t.Fatalf("Generate 应成功: %v", err)
	}

	stale := &DayPlan{VenueID: "venue-1", Date: testSaturday, Generation: "stale"}
	if got := env.engine.RestoreIfAbsent(stale); got.Generation != live.Generation {
		t.Errorf("期望保留内存中的批次 %s，实际 %s", live.Generation, got.Generation)
	}

	other := &DayPlan{VenueID: "venue-2", Date: testSaturday, Generation: "loaded"}
	if got := env.engine.RestoreIfAbsent(other); got.Generation != "loaded" {
		t.Errorf("期望回填批次 loaded，实际 %s", got.Generation)
	}
}

func TestEngine_Today(t *testing.T) {
	env := newTestEnv(FixedSignal(0))
	want := Date{Year: 2026, Month: time.October, Day: 18}
	if got := env.engine.Today(); got != want {
		t.Errorf("期望 %s，实际 %s", want, got)
	}
}
