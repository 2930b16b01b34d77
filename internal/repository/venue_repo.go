package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/model"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// VenueRepository 门店与员工名册数据访问接口
// 同时满足 roster.VenueDirectory
type VenueRepository interface {
	GetByID(ctx context.Context, venueID string) (*model.Venue, error)
	EmployeeRoster(ctx context.Context, venueID string) ([]string, error)
}

type venueRepo struct {
	db *gorm.DB
}

// NewVenueRepo 创建 VenueRepository 实例
func NewVenueRepo(db *gorm.DB) VenueRepository {
	return &venueRepo{db: db}
}

func (r *venueRepo) GetByID(ctx context.Context, venueID string) (*model.Venue, error) {
	var venue model.Venue
	err := r.db.WithContext(ctx).Where("venue_id = ?", venueID).First(&venue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roster.ErrVenueNotFound
		}
		return nil, err
	}
	return &venue, nil
}

// EmployeeRoster 按 position 升序返回员工 ID；门店不存在时返回 roster.ErrVenueNotFound
func (r *venueRepo) EmployeeRoster(ctx context.Context, venueID string) ([]string, error) {
	if _, err := r.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.VenueEmployee{}).
		Where("venue_id = ?", venueID).
		Order("position ASC, employee_id ASC").
		Pluck("employee_id", &ids).Error
	return ids, err
}
