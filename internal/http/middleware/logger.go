package middleware

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger logs each completed HTTP request as a single JSON line on stdout.
// Timestamps are rendered in UTC.
func Logger() fiber.Handler {
	return LoggerWithWriter(os.Stdout, time.UTC)
}

// LoggerWithWriter is like Logger but writes to w and renders the ts field
// in the given location. Fields: ts, request_id, method, path, status,
// latency (milliseconds). Each line is marshaled up front and written in one
// serialized call so concurrent handlers cannot interleave output.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	var mu sync.Mutex

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Collect fields after the handler ran so status is final.
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		line, mErr := json.Marshal(map[string]any{
			"ts":         time.Now().In(loc).Format(time.RFC3339Nano),
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    float64(time.Since(start).Milliseconds()),
		})
		if mErr != nil {
			return err
		}

		mu.Lock()
		w.Write(append(line, '\n'))
		mu.Unlock()

		return err
	}
}
