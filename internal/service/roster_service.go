package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/dto"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/repository"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// RosterService 需求估算、排班生成与空班认领
type RosterService interface {
	// 估算 (门店, 日期) 需求人数
	EstimateDemand(ctx context.Context, venueID, date string) (*dto.DemandResponse, error)
	// 生成排班，整体覆盖该日旧结果
	GenerateRoster(ctx context.Context, venueID, date string) (*dto.RosterResponse, error)
	// 查看当前排班与空班
	GetRoster(ctx context.Context, venueID, date string) (*dto.RosterResponse, error)
	// 员工认领空班
	ClaimSlot(ctx context.Context, venueID, date, slotID, employeeID string) (*dto.ClaimResponse, error)
	// 启动时从持久层回填内存状态
	Hydrate(ctx context.Context) error
}

type rosterService struct {
	engine *roster.Engine
	repo   *repository.Repository
	plans  *planLoader
	logger *zap.Logger
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(engine *roster.Engine, repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{engine: engine, repo: repo, plans: newPlanLoader(engine, repo), logger: logger}
}

func (s *rosterService) EstimateDemand(ctx context.Context, venueID, date string) (*dto.DemandResponse, error) {
	d, err := roster.ParseDate(date)
	if err != nil {
		return nil, err
	}
	demand, err := s.engine.EstimateDemand(ctx, venueID, d)
	if err != nil {
		s.logUnexpected("估算需求失败", err, zap.String("venue_id", venueID), zap.String("date", date))
		return nil, err
	}
	return &dto.DemandResponse{VenueID: venueID, Date: d.String(), Demand: demand}, nil
}

func (s *rosterService) GenerateRoster(ctx context.Context, venueID, date string) (*dto.RosterResponse, error) {
	d, err := roster.ParseDate(date)
	if err != nil {
		return nil, err
	}
	result, err := s.engine.Generate(ctx, venueID, d)
	if err != nil {
		s.logUnexpected("生成排班失败", err, zap.String("venue_id", venueID), zap.String("date", date))
		return nil, err
	}

	s.logger.Info("排班已生成",
		zap.String("venue_id", venueID),
		zap.String("date", d.String()),
		zap.String("generation", result.Generation),
		zap.Int("demand", result.Demand),
		zap.Int("assigned", len(result.Assignments)),
		zap.Int("open_slots", len(result.Slots)),
	)
	for _, w := range result.Warnings {
		s.logger.Warn("排班提示", zap.String("venue_id", venueID), zap.String("date", d.String()), zap.Error(w))
	}
	return toRosterResponse(result), nil
}

func (s *rosterService) GetRoster(ctx context.Context, venueID, date string) (*dto.RosterResponse, error) {
	d, err := roster.ParseDate(date)
	if err != nil {
		return nil, err
	}
	result, err := s.plans.get(ctx, venueID, d)
	if err != nil {
		s.logUnexpected("读取排班失败", err, zap.String("venue_id", venueID), zap.String("date", d.String()))
		return nil, err
	}
	return toRosterResponse(result), nil
}

func (s *rosterService) ClaimSlot(ctx context.Context, venueID, date, slotID, employeeID string) (*dto.ClaimResponse, error) {
	d, err := roster.ParseDate(date)
	if err != nil {
		return nil, err
	}
	assignment, err := s.engine.Claim(ctx, venueID, d, slotID, employeeID)
	if errors.Is(err, roster.ErrPoolNotFound) {
		// 本实例尚未持有该日计划（其他副本生成或本地计划已过期），加载后重试一次
		if _, loadErr := s.plans.get(ctx, venueID, d); loadErr == nil {
			assignment, err = s.engine.Claim(ctx, venueID, d, slotID, employeeID)
		}
	}
	if err != nil {
		fields := []zap.Field{
			zap.String("venue_id", venueID),
			zap.String("date", d.String()),
			zap.String("slot_id", slotID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		}
		switch {
		case errors.Is(err, roster.ErrAlreadyClaimed), errors.Is(err, roster.ErrDuplicateAssignment):
			s.logger.Info("认领被拒绝", fields...)
		case errors.Is(err, roster.ErrNotFound), errors.Is(err, roster.ErrInvalidDate):
			s.logger.Debug("认领目标无效", fields...)
		default:
			s.logger.Error("认领空班失败", fields...)
		}
		return nil, err
	}

	s.logger.Info("空班已认领",
		zap.String("venue_id", venueID),
		zap.String("date", d.String()),
		zap.String("slot_id", slotID),
		zap.String("employee_id", employeeID),
	)
	return &dto.ClaimResponse{
		VenueID:    venueID,
		Date:       d.String(),
		SlotID:     assignment.SlotID,
		EmployeeID: assignment.EmployeeID,
		Shift:      toShiftResponse(assignment.Shift),
	}, nil
}

// Hydrate 加载全部可用性与今天起的排班
func (s *rosterService) Hydrate(ctx context.Context) error {
	availability, err := s.repo.Availability.ListAll(ctx)
	if err != nil {
		s.logger.Error("加载可用性失败", zap.Error(err))
		return err
	}
	for employeeID, dates := range availability {
		s.engine.Availability().Set(employeeID, dates)
	}

	plans, err := s.repo.Roster.ListFrom(ctx, s.engine.Today())
	if err != nil {
		s.logger.Error("加载排班失败", zap.Error(err))
		return err
	}
	for _, plan := range plans {
		s.engine.Restore(plan)
	}

	s.logger.Info("排班状态已回填",
		zap.Int("employees", len(availability)),
		zap.Int("rosters", len(plans)),
	)
	return nil
}

// logUnexpected 预期内的业务错误不记 Error
func (s *rosterService) logUnexpected(msg string, err error, fields ...zap.Field) {
	if errors.Is(err, roster.ErrInvalidDate) || errors.Is(err, roster.ErrNotFound) {
		return
	}
	s.logger.Error(msg, append(fields, zap.Error(err))...)
}

// ── 响应转换 ──

func toShiftResponse(w roster.ShiftWindow) dto.ShiftResponse {
	return dto.ShiftResponse{Start: w.Start, End: w.End}
}

func toRosterResponse(r *roster.Roster) *dto.RosterResponse {
	resp := &dto.RosterResponse{
		VenueID:     r.VenueID,
		Date:        r.Date.String(),
		Generation:  r.Generation,
		Demand:      r.Demand,
		Candidates:  r.Candidates,
		Assignments: make([]dto.AssignmentResponse, 0, len(r.Assignments)),
		OpenSlots:   make([]dto.OpenSlotResponse, 0, len(r.Slots)),
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
	}
	for _, a := range r.Assignments {
		resp.Assignments = append(resp.Assignments, dto.AssignmentResponse{
			EmployeeID: a.EmployeeID,
			Shift:      toShiftResponse(a.Shift),
			SlotID:     a.SlotID,
		})
	}
	for _, slot := range r.OpenSlots() {
		resp.OpenSlots = append(resp.OpenSlots, dto.OpenSlotResponse{
			SlotID: slot.ID,
			Shift:  toShiftResponse(slot.Shift),
			Status: string(slot.Status),
		})
	}
	for _, w := range r.Warnings {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	return resp
}
