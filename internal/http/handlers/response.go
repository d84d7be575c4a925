// Package handlers exposes the recipe backend over HTTP: catalog CRUD,
// recipe generation, persistence, deletion, drafts and nutrition analysis.
//
// Every failure is written as an ErrorResponse:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "error": "recipe not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipe-backend/internal/http/middleware"
	"github.com/tbourn/go-recipe-backend/internal/services"
)

// ErrorResponse is the error envelope of every endpoint.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code.
	Code string `json:"code" example:"not_found"`
	// Human-readable message, safe to show to users.
	Message string `json:"error" example:"recipe not found"`
}

// SuccessResponse acknowledges a deletion.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// fail aborts with an ErrorResponse. 5xx responses are logged with the
// request logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: middleware.GetRequestID(c),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail, used by the router for 404 and 405.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr writes a service error. The client sees the error's safe message;
// the full cause chain goes to the log.
func failErr(c *gin.Context, err error) {
	status, code := classify(err)
	msg := services.Message(err)
	if msg == "" {
		msg = http.StatusText(status)
	}
	lg := middleware.LoggerFrom(c)
	if status >= http.StatusInternalServerError {
		lg.Error().Err(err).Int("status", status).Str("code", code).Msg("api error")
	} else {
		lg.Debug().Err(err).Str("code", code).Msg("request rejected")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: middleware.GetRequestID(c),
		Code:      code,
		Message:   msg,
	})
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func success(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
