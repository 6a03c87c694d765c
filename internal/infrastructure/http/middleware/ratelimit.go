package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewIPRateLimiter returns middleware that limits by client IP (in-memory
// store). rateFormatted: "100-M", "1000-H", "50-S". Empty disables.
func NewIPRateLimiter(rateFormatted string) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	store := memory.NewStore()
	instance := limiter.New(store, rate)
	return stdlib.NewMiddleware(instance).Handler, nil
}

// NewOrganizationRateLimiter returns middleware that limits by the
// organization in context. Use after TenantResolver. Empty disables.
func NewOrganizationRateLimiter(rateFormatted string) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	store := memory.NewStore()
	instance := limiter.New(store, rate)
	return organizationLimitMiddleware(instance), nil
}

func organizationLimitMiddleware(instance *limiter.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			org := OrganizationFromContext(r.Context())
			if org == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := "organization:" + org.ID.String()
			ctx, err := instance.Increment(r.Context(), key, 1)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if ctx.Reached {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(ctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(ctx.Remaining, 10))
			if ctx.Reset > 0 {
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", ctx.Reset))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
