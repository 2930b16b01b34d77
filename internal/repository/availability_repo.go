package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/model"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// AvailabilityRepository 员工可用日期数据访问接口
type AvailabilityRepository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]roster.Date, error)
	ListAll(ctx context.Context) (map[string][]roster.Date, error)
	Replace(ctx context.Context, employeeID string, dates []roster.Date) error
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo 创建 AvailabilityRepository 实例
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) ListByEmployee(ctx context.Context, employeeID string) ([]roster.Date, error) {
	var rows []model.EmployeeAvailability
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("available_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	dates := make([]roster.Date, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, roster.DateOf(row.AvailableDate))
	}
	return dates, nil
}

// ListAll 启动回填用：employeeID → 日期列表
func (r *availabilityRepo) ListAll(ctx context.Context) (map[string][]roster.Date, error) {
	var rows []model.EmployeeAvailability
	err := r.db.WithContext(ctx).
		Order("employee_id ASC, available_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string][]roster.Date)
	for _, row := range rows {
		result[row.EmployeeID] = append(result[row.EmployeeID], roster.DateOf(row.AvailableDate))
	}
	return result, nil
}

// Replace 整体替换员工的可用日期集合
func (r *availabilityRepo) Replace(ctx context.Context, employeeID string, dates []roster.Date) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 硬删除旧集合（替换语义，无需保留历史）
		if err := tx.Where("employee_id = ?", employeeID).
			Delete(&model.EmployeeAvailability{}).Error; err != nil {
			return err
		}
		if len(dates) == 0 {
			return nil
		}
		seen := make(map[roster.Date]struct{}, len(dates))
		rows := make([]model.EmployeeAvailability, 0, len(dates))
		for _, d := range dates {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			rows = append(rows, model.EmployeeAvailability{
				EmployeeID:    employeeID,
				AvailableDate: d.Time(time.UTC),
			})
		}
		return translateError(tx.Create(&rows).Error)
	})
}
