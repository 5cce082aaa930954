package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/infrastructure/ratelimit"
	"github.com/candor-hq/candor/internal/shared/constants"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/utils"
)

// RateLimiter applies per-IP fixed-window limits. With a nil limiter every
// request passes, which is how the API runs without Redis.
type RateLimiter struct {
	limiter ratelimit.Limiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.Limiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: logger}
}

// Limit counts requests under scope, so separate route groups keep
// separate budgets.
func (rl *RateLimiter) Limit(scope string, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiter == nil || !rule.Enabled() {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		decision, err := rl.limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			// fail open
			rl.logger.Warnw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(seconds))
			rl.logger.Warnw("rate limit exceeded", "scope", scope, "client_ip", c.ClientIP())
			utils.ErrorResponseWithError(c, errors.NewRateLimitError("rate limit exceeded, please try again later"))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Next()
	}
}
