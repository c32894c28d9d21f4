package http

import "github.com/vibast-solutions/ms-go-hydration/app/types"

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error  string                 `json:"error"`
	Fields types.ValidationErrors `json:"fields"`
}
