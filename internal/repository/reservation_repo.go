package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/model"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// ReservationRepository 预订人数数据访问接口
// 同时满足 roster.ReservationSource
type ReservationRepository interface {
	ReservationCount(ctx context.Context, venueID string, date roster.Date) (int, error)
	Upsert(ctx context.Context, venueID string, date roster.Date, covers int) error
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

// ReservationCount 无记录时返回 0
func (r *reservationRepo) ReservationCount(ctx context.Context, venueID string, date roster.Date) (int, error) {
	var rows []model.ReservationCount
	err := r.db.WithContext(ctx).
		Where("venue_id = ? AND service_date = ?", venueID, date.String()).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Covers, nil
}

// Upsert 写入或覆盖某日预订人数（外部预订系统同步、测试数据准备）
func (r *reservationRepo) Upsert(ctx context.Context, venueID string, date roster.Date, covers int) error {
	row := model.ReservationCount{
		VenueID:     venueID,
		ServiceDate: date.Time(time.UTC),
		Covers:      covers,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "venue_id"}, {Name: "service_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"covers": covers, "updated_at": gorm.Expr("NOW()")}),
		}).
		Create(&row).Error
}
