package dto

import "github.com/vibast-solutions/ms-go-hydration/app/entity"

type AuthResult struct {
	AccessToken string              `json:"access_token"`
	User        *entity.SafeAccount `json:"user"`
}

type DailyStats struct {
	Total   int                   `json:"total"`
	Count   int                   `json:"count"`
	Average float64               `json:"average"`
	Intakes []*entity.WaterIntake `json:"intakes"`
}
