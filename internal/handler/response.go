package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope every endpoint returns. Data is omitted on
// errors and on responses that carry only a message.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success writes the envelope with status "success". A zero code defaults
// to 200.
func Success(c echo.Context, code int, message string, data any) error {
	if code == 0 {
		code = http.StatusOK
	}
	return c.JSON(code, APIResponse{Status: "success", Message: message, Data: data})
}

// Error writes the envelope with status "error". A zero code defaults to 500.
func Error(c echo.Context, code int, message string) error {
	if code == 0 {
		code = http.StatusInternalServerError
	}
	return c.JSON(code, APIResponse{Status: "error", Message: message})
}
