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

type AuthController struct {
	authService        service.AuthService
	quickAccessService service.QuickAccessService
}

func NewAuthController(authService service.AuthService, quickAccessService service.QuickAccessService) *AuthController {
	return &AuthController{
		authService:        authService,
		quickAccessService: quickAccessService,
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	req, err := types.NewRegisterRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind register request")
		return invalidBody(ctx)
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Register validation failed")
		return validationFailed(ctx, err)
	}

	logrus.WithField("email", req.Email).Info("Register request received")
	result, err := c.authService.Register(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			logrus.WithField("email", req.Email).Warn("Register failed: user already exists")
			return ctx.JSON(http.StatusConflict, httpdto.ErrorResponse{Error: "user already exists"})
		}
		if errors.Is(err, service.ErrWeakPassword) {
			logrus.WithField("email", req.Email).Warn("Register failed: weak password")
			return fieldFailed(ctx, "password", err)
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Register failed")
		return internalError(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": result.User.ID,
		"email":   result.User.Email,
	}).Info("User registered")

	return ctx.JSON(http.StatusCreated, result)
}

func (c *AuthController) Login(ctx echo.Context) error {
	req, err := types.NewLoginRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind login request")
		return invalidBody(ctx)
	}

	if err = req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Login validation failed")
		return validationFailed(ctx, err)
	}

	logrus.WithField("email", req.Email).Info("Login request received")
	result, err := c.authService.Login(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("email", req.Email).Warn("Login failed: invalid credentials")
			return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid credentials"})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Login failed")
		return internalError(ctx)
	}

	logrus.WithField("user_id", result.User.ID).Info("Login successful")
	return ctx.JSON(http.StatusOK, result)
}

func (c *AuthController) Logout(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Logout failed: missing user_id in context")
		return unauthorized(ctx)
	}

	if err := c.authService.Logout(ctx.Request().Context(), accountID); err != nil {
		logrus.WithError(err).WithField("user_id", accountID).Error("Logout failed")
		return internalError(ctx)
	}

	logrus.WithField("user_id", accountID).Info("Logout successful")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "logged out successfully"})
}

func (c *AuthController) Me(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Me failed: missing user_id in context")
		return unauthorized(ctx)
	}

	account, err := c.authService.Me(ctx.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("user_id", accountID).Warn("Me failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", accountID).Error("Me failed")
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, account)
}

func (c *AuthController) GenerateQuickAccess(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Generate quick access failed: missing user_id in context")
		return unauthorized(ctx)
	}

	account, err := c.quickAccessService.IssueToken(ctx.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("user_id", accountID).Warn("Generate quick access failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", accountID).Error("Generate quick access failed")
		return internalError(ctx)
	}

	logrus.WithField("user_id", accountID).Info("Quick access token issued")
	return ctx.JSON(http.StatusOK, account)
}

func (c *AuthController) RevokeQuickAccess(ctx echo.Context) error {
	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		logrus.Warn("Revoke quick access failed: missing user_id in context")
		return unauthorized(ctx)
	}

	account, err := c.quickAccessService.RevokeToken(ctx.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			logrus.WithField("user_id", accountID).Warn("Revoke quick access failed: user not found")
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "user not found"})
		}
		logrus.WithError(err).WithField("user_id", accountID).Error("Revoke quick access failed")
		return internalError(ctx)
	}

	logrus.WithField("user_id", accountID).Info("Quick access token revoked")
	return ctx.JSON(http.StatusOK, account)
}
