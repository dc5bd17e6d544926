package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"shareit/internal/config"
)

var errPermissionDenied = fmt.Errorf("permission denied")

// AdminAuth проверяет ключи служебного API и ограничивает частоту
// запросов на каждый ключ
type AdminAuth struct {
	cfg      config.AdminConfig
	limiters sync.Map // map[string]*rate.Limiter
}

func NewAdminAuth(cfg config.AdminConfig) *AdminAuth {
	return &AdminAuth{cfg: cfg}
}

func (a *AdminAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, err := a.checkAuth(r)
		if err != nil {
			statusCode := http.StatusUnauthorized
			if err == errPermissionDenied {
				statusCode = http.StatusForbidden
			}
			writeError(w, statusCode, err.Error())
			return
		}

		if !a.getLimiter(client.Key).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *AdminAuth) checkAuth(r *http.Request) (config.AdminKey, error) {
	header := strings.TrimSpace(strings.ToLower(a.cfg.HeaderAPIKey))
	if header == "" {
		header = "x-api-key"
	}

	apiKey := strings.TrimSpace(r.Header.Get(header))
	if apiKey == "" {
		return config.AdminKey{}, fmt.Errorf("missing api key header")
	}

	var client config.AdminKey
	found := false
	for _, k := range a.cfg.APIKeys {
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(apiKey)) == 1 {
			client = k
			found = true
		}
	}
	if !found {
		return config.AdminKey{}, fmt.Errorf("invalid api key")
	}

	if err := checkPermissions(client, r); err != nil {
		return config.AdminKey{}, err
	}
	return client, nil
}

// checkPermissions: пустой список разрешений означает полный доступ
func checkPermissions(client config.AdminKey, r *http.Request) error {
	required := requiredPermission(r)
	if required == "" || len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

func requiredPermission(r *http.Request) string {
	switch {
	case strings.HasPrefix(r.URL.Path, "/admin/export/bookings"):
		return "export:bookings"
	case strings.HasPrefix(r.URL.Path, "/admin/export/users"):
		return "export:users"
	}
	return ""
}

func (a *AdminAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
