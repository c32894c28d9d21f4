package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const DateLayout = "2006-01-02"

type CreateWaterIntakeRequest struct {
	Amount *int `json:"amount,omitempty"`
}

func NewCreateWaterIntakeRequestFromContext(ctx echo.Context) (*CreateWaterIntakeRequest, error) {
	var body CreateWaterIntakeRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

func (r *CreateWaterIntakeRequest) Validate() error {
	var errs ValidationErrors
	if r.Amount != nil {
		validateAmount(&errs, "amount", *r.Amount)
	}

	return errs.err()
}

// AmountOrZero returns 0 when no amount was given, which selects the default.
func (r *CreateWaterIntakeRequest) AmountOrZero() int {
	if r.Amount == nil {
		return 0
	}
	return *r.Amount
}

type IntakeDateRequest struct {
	Date string
}

func NewIntakeDateRequestFromContext(ctx echo.Context) *IntakeDateRequest {
	return &IntakeDateRequest{Date: strings.TrimSpace(ctx.Param("date"))}
}

func (r *IntakeDateRequest) Validate() error {
	var errs ValidationErrors
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		errs.add("date", "date must be formatted as YYYY-MM-DD")
	}

	return errs.err()
}

// QuickAccessRequest is the unauthenticated redemption call. The token shape
// is checked by the service so that malformed and unknown tokens look alike.
type QuickAccessRequest struct {
	Token     string
	Amount    int
	rawAmount string
}

func NewQuickAccessRequestFromContext(ctx echo.Context) *QuickAccessRequest {
	return &QuickAccessRequest{
		Token:     ctx.Param("token"),
		rawAmount: strings.TrimSpace(ctx.QueryParam("amount")),
	}
}

func (r *QuickAccessRequest) Validate() error {
	var errs ValidationErrors
	if r.rawAmount != "" {
		amount, err := strconv.Atoi(r.rawAmount)
		if err != nil {
			errs.add("amount", "amount must be an integer")
		} else {
			validateAmount(&errs, "amount", amount)
			r.Amount = amount
		}
	}

	return errs.err()
}
