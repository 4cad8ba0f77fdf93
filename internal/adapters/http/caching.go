package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses.
// Replay data shifts every simulated tick, so windowed endpoints get
// short or no caching; only static surfaces cache longer.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/simulation"):
			ttl = "no-cache" // clock state is live

		case strings.HasPrefix(path, "/v1/assistant"):
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/charts/"):
			ttl = "public, max-age=1" // changes every tick while playing

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=1"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
