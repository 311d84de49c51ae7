package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const tooManyRequests = "Muitas requisições. Tente novamente mais tarde."

// AuthRateLimit keeps one token bucket per client IP, allowing rps requests
// per second with bursts of up to burst. Buckets idle for expiresIn are
// dropped. The client IP is whatever e.IPExtractor resolves, see ClientIP.
func AuthRateLimit(rps rate.Limit, burst int, expiresIn time.Duration) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rps,
		Burst:     burst,
		ExpiresIn: expiresIn,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Acesso negado."})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": tooManyRequests})
		},
	})
}
