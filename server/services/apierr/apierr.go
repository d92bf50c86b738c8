package apierr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/api/googleapi"
)

// Response is the error body every endpoint returns
type Response struct {
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	Committed *int   `json:"committed,omitempty"`
}

// RemoteStatus keeps the status google answered with, anything that isn't a google error is a 500
func RemoteStatus(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code >= 400 {
		return apiErr.Code
	}
	return http.StatusInternalServerError
}

// RemoteMessage prefers google's own message over our wrapping
func RemoteMessage(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func JSON(c echo.Context, status int, message string, err error) error {
	res := Response{Message: message}
	if err != nil {
		res.Error = err.Error()
	}
	return c.JSON(status, res)
}
