package types

import (
	"github.com/labstack/echo/v4"
)

// UpdateProfileRequest carries only the fields the caller wants changed.
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	DailyGoal *int64  `json:"daily_goal,omitempty"`
}

func NewUpdateProfileRequestFromContext(ctx echo.Context) (*UpdateProfileRequest, error) {
	var body UpdateProfileRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

func (r *UpdateProfileRequest) Validate() error {
	var errs ValidationErrors
	if r.Name != nil {
		validateName(&errs, "name", *r.Name)
	}
	if r.Email != nil {
		validateEmail(&errs, "email", *r.Email)
	}
	if r.Password != nil && *r.Password == "" {
		errs.add("password", "password cannot be empty")
	}
	if r.DailyGoal != nil && (*r.DailyGoal < minDailyGoalMl || *r.DailyGoal > maxDailyGoalMl) {
		errs.add("daily_goal", "daily goal must be between 500 and 5000 ml")
	}

	return errs.err()
}

func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil && r.DailyGoal == nil
}
