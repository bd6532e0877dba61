package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStateMismatch), errors.Is(err, models.ErrIntegrity):
		return http.StatusConflict
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the error and writes the translated status.
// Server errors are reported with a generic message.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	attrs := []any{
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("request_id", c.GetString(keyRequestID)),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
		msg = http.StatusText(status)
	} else {
		s.logger.Warn("request rejected", attrs...)
	}
	s.abort(c, status, msg)
}

// respondStatus writes an error body for failures raised by the router itself.
func (s *Server) respondStatus(c *gin.Context, status int, msg string) {
	s.logger.Warn("request rejected",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("request_id", c.GetString(keyRequestID)),
		slog.Int("status", status))
	s.abort(c, status, msg)
}

func (s *Server) abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Status:    status,
		Message:   msg,
		Timestamp: time.Now().UTC(),
	})
}
