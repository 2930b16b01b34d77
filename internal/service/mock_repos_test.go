package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/drostetom1-netizen/slimrooster-horeca/config"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/dto"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/model"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/repository"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
	pkgerrors "github.com/drostetom1-netizen/slimrooster-horeca/pkg/errors"
)

// ── Mock VenueRepository ──

type mockVenueRepo struct {
	rosters map[string][]string
}

func newMockVenueRepo() *mockVenueRepo {
	return &mockVenueRepo{rosters: map[string][]string{
		"venue-1": {"emp-a", "emp-b", "emp-c", "emp-d"},
	}}
}

func (m *mockVenueRepo) GetByID(_ context.Context, venueID string) (*model.Venue, error) {
	if _, ok := m.rosters[venueID]; !ok {
		return nil, roster.ErrVenueNotFound
	}
	return &model.Venue{VenueID: venueID, Name: venueID}, nil
}

func (m *mockVenueRepo) EmployeeRoster(_ context.Context, venueID string) ([]string, error) {
	ids, ok := m.rosters[venueID]
	if !ok {
		return nil, roster.ErrVenueNotFound
	}
	return append([]string(nil), ids...), nil
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	counts map[string]int
	err    error
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{counts: make(map[string]int)}
}

func (m *mockReservationRepo) ReservationCount(_ context.Context, venueID string, date roster.Date) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[venueID+"@"+date.String()], nil
}

func (m *mockReservationRepo) Upsert(_ context.Context, venueID string, date roster.Date, covers int) error {
	m.counts[venueID+"@"+date.String()] = covers
	return nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	mu         sync.Mutex
	data       map[string][]roster.Date
	replaceErr error
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{data: make(map[string][]roster.Date)}
}

func (m *mockAvailabilityRepo) ListByEmployee(_ context.Context, employeeID string) ([]roster.Date, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]roster.Date(nil), m.data[employeeID]...), nil
}

func (m *mockAvailabilityRepo) ListAll(_ context.Context) (map[string][]roster.Date, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string][]roster.Date, len(m.data))
	for k, v := range m.data {
		result[k] = append([]roster.Date(nil), v...)
	}
	return result, nil
}

func (m *mockAvailabilityRepo) Replace(_ context.Context, employeeID string, dates []roster.Date) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[employeeID] = append([]roster.Date(nil), dates...)
	return nil
}

// ── Mock RosterRepository ──

type mockRosterRepo struct {
	mu       sync.Mutex
	plans    map[roster.DayKey]*roster.DayPlan
	genErr   error
	claimErr error
	claims   int

	rangeLoads int
}

func newMockRosterRepo() *mockRosterRepo {
	return &mockRosterRepo{plans: make(map[roster.DayKey]*roster.DayPlan)}
}

func (m *mockRosterRepo) SaveGeneration(_ context.Context, plan *roster.DayPlan) error {
	if m.genErr != nil {
		return m.genErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.Key()] = plan.Clone()
	return nil
}

func (m *mockRosterRepo) SaveClaim(_ context.Context, key roster.DayKey, slot roster.OpenShiftSlot, assignment roster.ShiftAssignment) error {
	if m.claimErr != nil {
		return m.claimErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[key]
	if !ok {
		return pkgerrors.ErrOptimisticLock
	}
	for i := range plan.Slots {
		if plan.Slots[i].ID == slot.ID {
			if plan.Slots[i].Status != roster.SlotOpen {
				return pkgerrors.ErrOptimisticLock
			}
			plan.Slots[i] = slot
			plan.Assignments = append(plan.Assignments, assignment)
			m.claims++
			return nil
		}
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockRosterRepo) GetByVenueAndDate(_ context.Context, venueID string, date roster.Date) (*roster.DayPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[roster.DayKey{VenueID: venueID, Date: date}]
	if !ok {
		return nil, roster.ErrPoolNotFound
	}
	return plan.Clone(), nil
}

func (m *mockRosterRepo) ListFrom(_ context.Context, from roster.Date) ([]*roster.DayPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*roster.DayPlan
	for key, plan := range m.plans {
		if !key.Date.Before(from) {
			result = append(result, plan.Clone())
		}
	}
	return result, nil
}

func (m *mockRosterRepo) ListBetween(_ context.Context, from, to roster.Date) ([]*roster.DayPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rangeLoads++
	var result []*roster.DayPlan
	for key, plan := range m.plans {
		if !key.Date.Before(from) && !key.Date.After(to) {
			result = append(result, plan.Clone())
		}
	}
	return result, nil
}

// ── 测试辅助 ──

var (
	// 2026-10-18 是周日
	testNow      = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	testSaturday = "2026-10-24"
	testTuesday  = "2026-10-20"
)

type testMocks struct {
	venue        *mockVenueRepo
	reservation  *mockReservationRepo
	availability *mockAvailabilityRepo
	roster       *mockRosterRepo
}

func testRosterConfig() config.RosterConfig {
	return config.RosterConfig{
		WeekdayBase:    5,
		WeekendBase:    10,
		WeekendDays:    []string{"friday", "saturday", "sunday"},
		CoversPerStaff: 10,
		StaffDivisor:   3,
		MinStaff:       1,
		ShiftWindow:    "16:00-22:00",
		WeatherChoices: []int{0},
		WeatherSeed:    1,
		Timezone:       "UTC",
	}
}

func setupTestService() (*Service, *testMocks) {
	mocks := &testMocks{
		venue:        newMockVenueRepo(),
		reservation:  newMockReservationRepo(),
		availability: newMockAvailabilityRepo(),
		roster:       newMockRosterRepo(),
	}
	repo := &repository.Repository{
		Venue:        mocks.venue,
		Reservation:  mocks.reservation,
		Availability: mocks.availability,
		Roster:       mocks.roster,
	}
	cfg := &config.Config{Roster: testRosterConfig()}
	svc, err := NewService(cfg, repo, zap.NewNop(), roster.WithClock(func() time.Time { return testNow }))
	if err != nil {
		panic(err)
	}
	return svc, mocks
}

// setAllAvailable 为 venue-1 全部员工声明某日可用
func setAllAvailable(svc *Service, date string) {
	for _, emp := range []string{"emp-a", "emp-b", "emp-c", "emp-d"} {
		if _, err := svc.Availability.SetAvailability(context.Background(), emp, &dto.SetAvailabilityRequest{Dates: []string{date}}); err != nil {
			panic(err)
		}
	}
}
