package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
)

// Rate limits sized for a small back office: a coordinator paging through
// appointments stays well under this, a misbehaving client does not.
const (
	limiterMax    = 60
	limiterWindow = 30 * time.Second
)

// NewLimiterWithRedis rate-limits per client IP with a sliding window backed
// by Redis, so limits hold across restarts and replicas.
func NewLimiterWithRedis(rdb *redis.Client) fiber.Handler {
	return limiter.New(limiter.Config{
		Storage:           fiberredis.NewFromConnection(rdb),
		Max:               limiterMax,
		Expiration:        limiterWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
