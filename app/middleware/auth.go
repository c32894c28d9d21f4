package middleware

import (
	"net/http"
	"strings"

	httpdto "github.com/vibast-solutions/ms-go-hydration/app/dto/http"
	"github.com/vibast-solutions/ms-go-hydration/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type accessTokenValidator interface {
	ValidateAccessToken(tokenString string) (*service.Claims, error)
}

type AuthMiddleware struct {
	authService accessTokenValidator
}

func NewAuthMiddleware(authService accessTokenValidator) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "missing authorization header"})
		}

		tokenString, ok := BearerToken(authHeader)
		if !ok {
			logrus.Debug("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid authorization header format"})
		}

		claims, err := m.authService.ValidateAccessToken(tokenString)
		if err != nil {
			logrus.Debug("Invalid or expired access token")
			return c.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "invalid or expired token"})
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)

		return next(c)
	}
}
