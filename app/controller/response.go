package controller

import (
	"errors"
	"net/http"

	httpdto "github.com/vibast-solutions/ms-go-hydration/app/dto/http"
	"github.com/vibast-solutions/ms-go-hydration/app/types"

	"github.com/labstack/echo/v4"
)

const contextAccountIDKey = "user_id"

func accountIDFromContext(ctx echo.Context) (string, bool) {
	accountID, ok := ctx.Get(contextAccountIDKey).(string)
	return accountID, ok && accountID != ""
}

func validationFailed(ctx echo.Context, err error) error {
	var fields types.ValidationErrors
	if errors.As(err, &fields) {
		return ctx.JSON(http.StatusBadRequest, httpdto.ValidationErrorResponse{
			Error:  "validation failed",
			Fields: fields,
		})
	}
	return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
}

func fieldFailed(ctx echo.Context, field string, err error) error {
	return ctx.JSON(http.StatusBadRequest, httpdto.ValidationErrorResponse{
		Error:  "validation failed",
		Fields: types.ValidationErrors{{Field: field, Message: err.Error()}},
	})
}

func invalidBody(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
}

func unauthorized(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "unauthorized"})
}

func internalError(ctx echo.Context) error {
	return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
}
