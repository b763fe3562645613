package demosite

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Response is the JSON envelope of the non-storefront endpoints and of
// every error the storefront handlers return.
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// errorHandler maps handler errors to a JSON Response. Anything that is not
// a *fiber.Error is a 500 and gets logged.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	id, _ := c.Locals(requestIDKey).(string)
	if code >= fiber.StatusInternalServerError {
		s.log.Error("Request failed",
			zap.String("request_id", id),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(Response{Error: err.Error(), RequestID: id})
}

// HealthCheck reports liveness and the store's size.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	sessions, accounts := s.store.Stats()
	return c.JSON(Response{
		Success: true,
		Data: fiber.Map{
			"status":    "ok",
			"sessions":  sessions,
			"accounts":  accounts,
			"uptime":    time.Since(s.started).Round(time.Second).String(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
