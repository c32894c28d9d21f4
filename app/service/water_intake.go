package service

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/dto"
	"github.com/vibast-solutions/ms-go-hydration/app/entity"
	"github.com/vibast-solutions/ms-go-hydration/app/types"
	"github.com/vibast-solutions/ms-go-hydration/config"

	"github.com/google/uuid"
)

const DefaultIntakeAmountMl = 500

type waterIntakeRepository interface {
	Create(ctx context.Context, intake *entity.WaterIntake) error
	ListByAccount(ctx context.Context, accountID string) ([]*entity.WaterIntake, error)
	ListByAccountAndRange(ctx context.Context, accountID string, start, end time.Time) ([]*entity.WaterIntake, error)
}

type WaterIntakeService interface {
	Create(ctx context.Context, accountID string, amountMl int) (*entity.WaterIntake, error)
	List(ctx context.Context, accountID string) ([]*entity.WaterIntake, error)
	Today(ctx context.Context, accountID string) (*dto.DailyStats, error)
	ByDate(ctx context.Context, accountID, date string) (*dto.DailyStats, error)
}

type waterIntakeService struct {
	intakeRepo waterIntakeRepository
	location   *time.Location
	opts       options
}

func NewWaterIntakeService(intakeRepo waterIntakeRepository, cfg *config.Config, opts ...Option) WaterIntakeService {
	location := time.UTC
	if cfg != nil && cfg.Hydration.Location != nil {
		location = cfg.Hydration.Location
	}
	return &waterIntakeService{
		intakeRepo: intakeRepo,
		location:   location,
		opts:       newOptions(opts),
	}
}

func (s *waterIntakeService) Create(ctx context.Context, accountID string, amountMl int) (*entity.WaterIntake, error) {
	if amountMl == 0 {
		amountMl = DefaultIntakeAmountMl
	}
	if amountMl < 1 || amountMl > MaxIntakeAmountMl {
		return nil, ErrInvalidAmount
	}

	intake := &entity.WaterIntake{
		ID:        uuid.NewString(),
		AccountID: accountID,
		AmountMl:  amountMl,
		CreatedAt: s.opts.now(),
	}
	if err := s.intakeRepo.Create(ctx, intake); err != nil {
		return nil, storeError(err)
	}
	s.opts.metrics.ObserveIntake(intake.AmountMl)

	return intake, nil
}

func (s *waterIntakeService) List(ctx context.Context, accountID string) ([]*entity.WaterIntake, error) {
	intakes, err := s.intakeRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, storeError(err)
	}
	return intakes, nil
}

func (s *waterIntakeService) Today(ctx context.Context, accountID string) (*dto.DailyStats, error) {
	return s.day(ctx, accountID, startOfDay(s.opts.now(), s.location))
}

func (s *waterIntakeService) ByDate(ctx context.Context, accountID, date string) (*dto.DailyStats, error) {
	start, err := time.ParseInLocation(types.DateLayout, date, s.location)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.day(ctx, accountID, start)
}

func (s *waterIntakeService) day(ctx context.Context, accountID string, start time.Time) (*dto.DailyStats, error) {
	intakes, err := s.intakeRepo.ListByAccountAndRange(ctx, accountID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, storeError(err)
	}
	return Aggregate(intakes), nil
}

// Aggregate sums a day of intakes. The input order is kept.
func Aggregate(intakes []*entity.WaterIntake) *dto.DailyStats {
	stats := &dto.DailyStats{Intakes: intakes}
	if stats.Intakes == nil {
		stats.Intakes = []*entity.WaterIntake{}
	}

	for _, intake := range intakes {
		stats.Total += intake.AmountMl
	}
	stats.Count = len(intakes)
	if stats.Count > 0 {
		stats.Average = float64(stats.Total) / float64(stats.Count)
	}
	return stats
}

func startOfDay(t time.Time, location *time.Location) time.Time {
	year, month, day := t.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}
