package entity

import "time"

type WaterIntake struct {
	ID        string    `json:"id"`
	AccountID string    `json:"-"`
	AmountMl  int       `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
