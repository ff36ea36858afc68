// middleware/logger.go - Request ids, access log and HTTP metrics
package middleware

import (
	"strconv"
	"time"

	"teamhub/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id, logs it when it completes and
// records it in the HTTP metrics.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals("requestId", requestID)
		c.Set(RequestIDHeader, requestID)

		chainErr := c.Next()
		if chainErr != nil {
			// Let the app's error handler write the response so the status is known.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		route := c.Route().Path
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method(), route).Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", c.IP()),
		}
		if id, ok := c.Locals("userId").(uint); ok {
			fields = append(fields, zap.Uint("user_id", id))
		}

		switch {
		case status >= 500:
			log.Error("request failed", append(fields, zap.Error(chainErr))...)
		case status >= 400:
			log.Info("request rejected", fields...)
		default:
			log.Debug("request served", fields...)
		}
		return nil
	}
}
