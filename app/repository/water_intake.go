package repository

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-hydration/app/entity"
)

var waterIntakeColumns = []string{
	"id",
	"user_id",
	"amount",
	"created_at",
}

type WaterIntakeRepository struct {
	table table[entity.WaterIntake]
}

func NewWaterIntakeRepository(db DBTX) *WaterIntakeRepository {
	return &WaterIntakeRepository{
		table: table[entity.WaterIntake]{
			db:      db,
			name:    "water_intakes",
			key:     "id",
			columns: waterIntakeColumns,
			scan:    scanWaterIntake,
		},
	}
}

func (r *WaterIntakeRepository) Create(ctx context.Context, intake *entity.WaterIntake) error {
	return r.table.insert(ctx,
		Column{"id", intake.ID},
		Column{"user_id", intake.AccountID},
		Column{"amount", intake.AmountMl},
		Column{"created_at", intake.CreatedAt},
	)
}

func (r *WaterIntakeRepository) ListByAccount(ctx context.Context, accountID string) ([]*entity.WaterIntake, error) {
	return r.table.findMany(ctx, "user_id = ? ORDER BY created_at DESC", accountID)
}

// ListByAccountAndRange returns intakes with start <= created_at < end, newest first.
func (r *WaterIntakeRepository) ListByAccountAndRange(ctx context.Context, accountID string, start, end time.Time) ([]*entity.WaterIntake, error) {
	return r.table.findMany(ctx,
		"user_id = ? AND created_at >= ? AND created_at < ? ORDER BY created_at DESC",
		accountID, start, end,
	)
}

func scanWaterIntake(scan rowScanner) (*entity.WaterIntake, error) {
	intake := &entity.WaterIntake{}
	if err := scan(
		&intake.ID,
		&intake.AccountID,
		&intake.AmountMl,
		&intake.CreatedAt,
	); err != nil {
		return nil, err
	}
	return intake, nil
}
