package roster

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ── 测试替身 ──

type fakeReservations struct {
	counts map[DayKey]int
	err    error
}

func (f *fakeReservations) ReservationCount(_ context.Context, venueID string, date Date) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[DayKey{VenueID: venueID, Date: date}], nil
}

type fakeDirectory struct {
	venues map[string][]string
}

func (f *fakeDirectory) EmployeeRoster(_ context.Context, venueID string) ([]string, error) {
	employees, ok := f.venues[venueID]
	if !ok {
		return nil, ErrVenueNotFound
	}
	return employees, nil
}

type recordingJournal struct {
	mu          sync.Mutex
	generations int
	claims      int
	claimErr    error
	genErr      error
}

func (j *recordingJournal) SaveGeneration(context.Context, *DayPlan) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.genErr != nil {
		return j.genErr
	}
	j.generations++
	return nil
}

func (j *recordingJournal) SaveClaim(context.Context, DayKey, OpenShiftSlot, ShiftAssignment) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.claimErr != nil {
		return j.claimErr
	}
	j.claims++
	return nil
}

// 2026-10-24 为周六
var (
	testToday    = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	testSaturday = Date{Year: 2026, Month: time.October, Day: 24}
	testTuesday  = Date{Year: 2026, Month: time.October, Day: 20}
)

type testEnv struct {
	engine       *Engine
	reservations *fakeReservations
	directory    *fakeDirectory
	journal      *recordingJournal
}

func newTestEnv(signal Signal) *testEnv {
	policy := DefaultPolicy()
	res := &fakeReservations{counts: make(map[DayKey]int)}
	dir := &fakeDirectory{venues: map[string][]string{
		"venue-1": {"emp-a", "emp-b", "emp-c", "emp-d"},
	}}
	journal := &recordingJournal{}

	var seq int
	var seqMu sync.Mutex
	engine := NewEngine(policy, NewDemandEstimator(policy, signal), NewAvailabilityIndex(), res, dir,
		WithJournal(journal),
		WithClock(func() time.Time { return testToday }),
		WithIDGenerator(func() string {
			seqMu.Lock()
			defer seqMu.Unlock()
			seq++
			return fmt.Sprintf("slot-%d", seq)
		}),
	)
	return &testEnv{engine: engine, reservations: res, directory: dir, journal: journal}
}

func (env *testEnv) allAvailable(date Date) {
	for _, e := range env.directory.venues["venue-1"] {
		env.engine.Availability().Set(e, []Date{date})
	}
}
