package types

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func NewRegisterRequestFromContext(ctx echo.Context) (*RegisterRequest, error) {
	var body RegisterRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

func (r *RegisterRequest) Validate() error {
	var errs ValidationErrors
	validateEmail(&errs, "email", r.Email)
	if strings.TrimSpace(r.Password) == "" {
		errs.add("password", "password is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs.add("name", "name is required")
	} else {
		validateName(&errs, "name", r.Name)
	}

	return errs.err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewLoginRequestFromContext(ctx echo.Context) (*LoginRequest, error) {
	var body LoginRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

func (r *LoginRequest) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(r.Email) == "" {
		errs.add("email", "email is required")
	}
	if strings.TrimSpace(r.Password) == "" {
		errs.add("password", "password is required")
	}

	return errs.err()
}
