package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drostetom1-netizen/slimrooster-horeca/config"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/repository"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// PolicyFromConfig 由 roster 配置段构建排班策略
func PolicyFromConfig(cfg *config.RosterConfig) (roster.Policy, error) {
	weekend, err := cfg.Weekdays()
	if err != nil {
		return roster.Policy{}, err
	}
	shift, err := roster.ParseShiftWindow(cfg.ShiftWindow)
	if err != nil {
		return roster.Policy{}, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return roster.Policy{}, fmt.Errorf("时区无效 %q: %w", cfg.Timezone, err)
	}

	policy := roster.Policy{
		WeekdayBase:    cfg.WeekdayBase,
		WeekendBase:    cfg.WeekendBase,
		WeekendDays:    weekend,
		CoversPerStaff: cfg.CoversPerStaff,
		StaffDivisor:   cfg.StaffDivisor,
		MinStaff:       cfg.MinStaff,
		Shift:          shift,
		Location:       loc,
		MaxDaysAhead:   cfg.MaxDaysAhead,
		AllowPastDates: cfg.AllowPastDates,
	}
	if err := policy.Validate(); err != nil {
		return roster.Policy{}, err
	}
	return policy, nil
}

// NewEngine 组装排班核心：策略、天气信号、可用性索引与持久化协作方
func NewEngine(cfg *config.RosterConfig, repo *repository.Repository, opts ...roster.Option) (*roster.Engine, error) {
	policy, err := PolicyFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	estimator := roster.NewDemandEstimator(policy, roster.NewWeatherSignal(cfg.WeatherChoices, cfg.WeatherSeed))

	opts = append([]roster.Option{roster.WithJournal(repo.Roster)}, opts...)
	return roster.NewEngine(
		policy,
		estimator,
		roster.NewAvailabilityIndex(),
		repo.Reservation,
		repo.Venue,
		opts...,
	), nil
}

// planLoader 内存未命中时从持久层加载排班；
// 覆盖其他副本生成的批次，以及启动回填范围（今天起）之外的历史日期
type planLoader struct {
	engine  *roster.Engine
	rosters repository.RosterRepository
}

func newPlanLoader(engine *roster.Engine, repo *repository.Repository) *planLoader {
	return &planLoader{engine: engine, rosters: repo.Roster}
}

// get 返回 (门店, 日期) 的排班；内存中已有的计划始终优先
func (l *planLoader) get(ctx context.Context, venueID string, date roster.Date) (*roster.Roster, error) {
	result, err := l.engine.Get(venueID, date)
	if !errors.Is(err, roster.ErrPoolNotFound) {
		return result, err
	}
	plan, err := l.rosters.GetByVenueAndDate(ctx, venueID, date)
	if err != nil {
		return nil, err
	}
	return l.engine.RestoreIfAbsent(plan), nil
}

// loadRange 把 [from, to] 内的持久化批次补入内存，已存在的键不覆盖
func (l *planLoader) loadRange(ctx context.Context, from, to roster.Date) error {
	plans, err := l.rosters.ListBetween(ctx, from, to)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		l.engine.RestoreIfAbsent(plan)
	}
	return nil
}
