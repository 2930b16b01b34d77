package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/drostetom1-netizen/slimrooster-horeca/internal/dto"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/repository"
	"github.com/drostetom1-netizen/slimrooster-horeca/internal/roster"
)

// ── 可用性模块业务错误 ──

var (
	ErrICSInvalid = errors.New("ICS 文件无效")
	ErrICSEmpty   = errors.New("ICS 文件中无可用日期")
)

// AvailabilityService 员工可用日期业务接口
//
// 设计说明：
//   - 更新为整体替换，先落库再写内存索引，二者在同一员工锁内完成
//   - 读取直接走内存索引（启动时由 RosterService.Hydrate 回填）
type AvailabilityService interface {
	SetAvailability(ctx context.Context, employeeID string, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error)
	GetAvailability(ctx context.Context, employeeID string) (*dto.AvailabilityResponse, error)
	ImportICS(ctx context.Context, employeeID string, reader io.Reader) (*dto.ImportAvailabilityResponse, error)
}

type availabilityService struct {
	index  *roster.AvailabilityIndex
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(engine *roster.Engine, repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	loc := engine.Policy().Location
	if loc == nil {
		loc = time.UTC
	}
	return &availabilityService{
		index:  engine.Availability(),
		repo:   repo,
		loc:    loc,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *availabilityService) employeeLock(employeeID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[employeeID] = l
	}
	return l
}

func (s *availabilityService) SetAvailability(ctx context.Context, employeeID string, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	dates := make([]roster.Date, 0, len(req.Dates))
	for _, raw := range req.Dates {
		d, err := roster.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	if err := s.replace(ctx, employeeID, dates); err != nil {
		return nil, err
	}
	return s.GetAvailability(ctx, employeeID)
}

func (s *availabilityService) GetAvailability(_ context.Context, employeeID string) (*dto.AvailabilityResponse, error) {
	return &dto.AvailabilityResponse{
		EmployeeID: employeeID,
		Dates:      formatDates(s.index.Dates(employeeID)),
	}, nil
}

func (s *availabilityService) ImportICS(ctx context.Context, employeeID string, reader io.Reader) (*dto.ImportAvailabilityResponse, error) {
	dates, err := ParseAvailabilityICS(reader, s.loc)
	if err != nil {
		s.logger.Debug("ICS 解析失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, ErrICSInvalid
	}
	if len(dates) == 0 {
		return nil, ErrICSEmpty
	}
	if err := s.replace(ctx, employeeID, dates); err != nil {
		return nil, err
	}
	s.logger.Info("可用日期已从 ICS 导入", zap.String("employee_id", employeeID), zap.Int("dates", len(dates)))
	return &dto.ImportAvailabilityResponse{
		EmployeeID: employeeID,
		Imported:   len(dates),
		Dates:      formatDates(dates),
	}, nil
}

// replace 落库成功后才更新内存索引
func (s *availabilityService) replace(ctx context.Context, employeeID string, dates []roster.Date) error {
	l := s.employeeLock(employeeID)
	l.Lock()
	defer l.Unlock()

	if err := s.repo.Availability.Replace(ctx, employeeID, dates); err != nil {
		s.logger.Error("保存可用日期失败", zap.String("employee_id", employeeID), zap.Error(err))
		return err
	}
	s.index.Set(employeeID, dates)
	return nil
}

func formatDates(dates []roster.Date) []string {
	result := make([]string, 0, len(dates))
	for _, d := range dates {
		result = append(result, d.String())
	}
	return result
}
