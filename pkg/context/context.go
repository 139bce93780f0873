// Package context carries the request ID from the Fiber layer into the
// service and repository layers, where only a context.Context travels.
package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const RequestIDKey = "request_id"

const headerKey = "X-Request-ID"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx starts a fresh context seeded with the request ID the
// middleware stored on the Fiber locals, falling back to the raw header
// when the middleware did not run.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(headerKey).(string)
	if !ok || requestID == "" {
		requestID = c.Get(headerKey)
	}
	if requestID == "" {
		requestID = "unknown"
	}

	return WithRequestID(context.Background(), requestID)
}
