package controller

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	httpdto "github.com/vibast-solutions/ms-go-hydration/app/dto/http"
	"github.com/vibast-solutions/ms-go-hydration/app/service"
	"github.com/vibast-solutions/ms-go-hydration/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type WaterIntakeController struct {
	waterIntakeService service.WaterIntakeService
	quickAccessService service.QuickAccessService
}

func NewWaterIntakeController(waterIntakeService service.WaterIntakeService, quickAccessService service.QuickAccessService) *WaterIntakeController {
	return &WaterIntakeController{
		waterIntakeService: waterIntakeService,
		quickAccessService: quickAccessService,
	}
}

func (c *WaterIntakeController) Create(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Create water intake failed: missing user_id in context")
		return unauthorized(ctx)
	}

	req, err := types.NewCreateWaterIntakeRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind create water intake request")
		return invalidBody(ctx)
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("user_id", accountID).Debug("Create water intake validation failed")
		return validationFailed(ctx, err)
	}

	intake, err := c.waterIntakeService.Create(ctx.Request().Context(), accountID, req.AmountOrZero())
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			return fieldFailed(ctx, "amount", err)
		}
		logrus.WithError(err).WithField("user_id", accountID).Error("Create water intake failed")
		return internalError(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": accountID,
		"amount":  intake.AmountMl,
	}).Info("Water intake recorded")

	return ctx.JSON(http.StatusCreated, intake)
}

func (c *WaterIntakeController) List(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("List water intakes failed: missing user_id in context")
		return unauthorized(ctx)
	}

	intakes, err := c.waterIntakeService.List(ctx.Request().Context(), accountID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", accountID).Error("List water intakes failed")
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, intakes)
}

func (c *WaterIntakeController) Today(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Today stats failed: missing user_id in context")
		return unauthorized(ctx)
	}

	stats, err := c.waterIntakeService.Today(ctx.Request().Context(), accountID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", accountID).Error("Today stats failed")
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, stats)
}

func (c *WaterIntakeController) ByDate(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Stats by date failed: missing user_id in context")
		return unauthorized(ctx)
	}

	req := types.NewIntakeDateRequestFromContext(ctx)
	if err := req.Validate(); err != nil {
		logrus.WithField("date", req.Date).Debug("Stats by date validation failed")
		return validationFailed(ctx, err)
	}

	stats, err := c.waterIntakeService.ByDate(ctx.Request().Context(), accountID, req.Date)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return fieldFailed(ctx, "date", err)
		}
		logrus.WithError(err).WithField("user_id", accountID).Error("Stats by date failed")
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, stats)
}

// QuickAccess redeems a quick-access token from the URL. It needs no session.
func (c *WaterIntakeController) QuickAccess(ctx echo.Context) error {
	req := types.NewQuickAccessRequestFromContext(ctx)
	if err := req.Validate(); err != nil {
		logrus.Debug("Quick access validation failed")
		return validationFailed(ctx, err)
	}

	intake, err := c.quickAccessService.Redeem(ctx.Request().Context(), req.Token, req.Amount)
	if err != nil {
		var cooldownErr *service.CooldownError
		switch {
		case errors.Is(err, service.ErrInvalidQuickAccessToken):
			logrus.WithField("ip", ctx.RealIP()).Warn("Quick access failed: invalid token")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid quick access token"})
		case errors.As(err, &cooldownErr):
			retryAfter := int(math.Ceil(cooldownErr.RetryAfter.Seconds()))
			ctx.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			logrus.WithField("retry_after", retryAfter).Info("Quick access rejected: cooldown active")
			return ctx.JSON(http.StatusTooManyRequests, httpdto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrInvalidAmount):
			return fieldFailed(ctx, "amount", err)
		}
		logrus.WithError(err).Error("Quick access failed")
		return internalError(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": intake.AccountID,
		"amount":  intake.AmountMl,
	}).Info("Water intake recorded via quick access")

	return ctx.JSON(http.StatusOK, intake)
}
