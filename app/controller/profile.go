package controller

import (
	"errors"
	"net/http"

	httpdto "github.com/vibast-solutions/ms-go-hydration/app/dto/http"
	"github.com/vibast-solutions/ms-go-hydration/app/service"
	"github.com/vibast-solutions/ms-go-hydration/app/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

func (c *ProfileController) GetProfile(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Get profile failed: missing user_id in context")
		return unauthorized(ctx)
	}

	account, err := c.profileService.GetProfile(ctx.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("user_id", accountID).Warn("Get profile failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", accountID).Error("Get profile failed")
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, account)
}

func (c *ProfileController) UpdateProfile(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Update profile failed: missing user_id in context")
		return unauthorized(ctx)
	}

	req, err := types.NewUpdateProfileRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind update profile request")
		return invalidBody(ctx)
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("user_id", accountID).Debug("Update profile validation failed")
		return validationFailed(ctx, err)
	}

	if req.IsEmpty() {
		logrus.WithField("user_id", accountID).Debug("Update profile request carries no changes")
		return c.GetProfile(ctx)
	}

	account, err := c.profileService.UpdateProfile(ctx.Request().Context(), accountID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			logrus.WithField("user_id", accountID).Warn("Update profile failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		case errors.Is(err, service.ErrUserExists):
			logrus.WithField("user_id", accountID).Warn("Update profile failed: email already in use")
			return ctx.JSON(http.StatusConflict, httpdto.ErrorResponse{Error: "user already exists"})
		case errors.Is(err, service.ErrWeakPassword):
			logrus.WithField("user_id", accountID).Warn("Update profile failed: weak password")
			return fieldFailed(ctx, "password", err)
		}
		logrus.WithError(err).WithField("user_id", accountID).Error("Update profile failed")
		return internalError(ctx)
	}

	logrus.WithField("user_id", accountID).Info("Profile updated")
	return ctx.JSON(http.StatusOK, account)
}
