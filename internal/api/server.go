package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/export"
	"shareit/internal/metrics"
)

// HeaderUserID identifies the calling user on the public endpoints.
const HeaderUserID = "X-Sharer-User-Id"

// HTTPServer exposes the REST API: users, items, bookings, requests and
// the admin export endpoints.
type HTTPServer struct {
	cfg      *config.Config
	bookings domain.BookingService
	items    domain.ItemService
	users    domain.UserService
	requests domain.RequestService
	exporter *export.Exporter
	limiter  domain.RateLimiter
	logger   *zerolog.Logger
	server   *http.Server
	auth     *AdminAuth
}

func NewHTTPServer(
	cfg *config.Config,
	bookings domain.BookingService,
	items domain.ItemService,
	users domain.UserService,
	requests domain.RequestService,
	exporter *export.Exporter,
	limiter domain.RateLimiter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		items:    items,
		users:    users,
		requests: requests,
		exporter: exporter,
		limiter:  limiter,
		logger:   logger,
	}
	srv.auth = NewAdminAuth(cfg.Admin)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /bookings", srv.withUser(srv.createBooking))
	mux.HandleFunc("GET /bookings", srv.withUser(srv.listBookerBookings))
	mux.HandleFunc("GET /bookings/owner", srv.withUser(srv.listOwnerBookings))
	mux.HandleFunc("GET /bookings/{id}", srv.withUser(srv.getBooking))
	mux.HandleFunc("PATCH /bookings/{id}", srv.withUser(srv.decideBooking))

	mux.HandleFunc("POST /items", srv.withUser(srv.createItem))
	mux.HandleFunc("GET /items", srv.withUser(srv.listOwnerItems))
	mux.HandleFunc("GET /items/search", srv.withUser(srv.searchItems))
	mux.HandleFunc("GET /items/{id}", srv.withUser(srv.getItem))
	mux.HandleFunc("PATCH /items/{id}", srv.withUser(srv.updateItem))
	mux.HandleFunc("POST /items/{id}/comment", srv.withUser(srv.addComment))

	mux.HandleFunc("POST /users", srv.createUser)
	mux.HandleFunc("GET /users", srv.listUsers)
	mux.HandleFunc("GET /users/{id}", srv.getUser)
	mux.HandleFunc("PATCH /users/{id}", srv.updateUser)
	mux.HandleFunc("DELETE /users/{id}", srv.deleteUser)

	mux.HandleFunc("POST /requests", srv.withUser(srv.createRequest))
	mux.HandleFunc("GET /requests", srv.withUser(srv.listOwnRequests))
	mux.HandleFunc("GET /requests/all", srv.withUser(srv.listAllRequests))
	mux.HandleFunc("GET /requests/{id}", srv.withUser(srv.getRequest))

	mux.Handle("GET /admin/export/bookings", srv.auth.Wrap(http.HandlerFunc(srv.exportBookings)))
	mux.Handle("GET /admin/export/users", srv.auth.Wrap(http.HandlerFunc(srv.exportUsers)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler возвращает полную цепочку обработчиков; удобно для httptest
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.IncHTTP(endpoint)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID int64)

// withUser извлекает идентификатор пользователя из заголовка и
// применяет лимит запросов на пользователя
func (s *HTTPServer) withUser(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			writeError(w, http.StatusBadRequest, HeaderUserID+" header is required")
			return
		}

		if s.cfg.RateLimit.Enabled && s.limiter != nil {
			allowed, err := s.limiter.CheckRateLimit(r.Context(), raw, s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window)
			if err != nil {
				// При отказе лимитера запрос пропускаем
				s.logger.Error().Err(err).Str("user_id", raw).Msg("Rate limit check failed")
			} else if !allowed {
				metrics.IncRateLimited()
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}

		h(w, r, userID)
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// pageParams читает from/size из query; по умолчанию 0/10
func pageParams(r *http.Request) (int, int, error) {
	from, size := 0, 10
	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, fmt.Errorf("invalid from %q", raw)
		}
		from = v
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return 0, 0, fmt.Errorf("invalid size %q", raw)
		}
		size = v
	}
	return from, size, nil
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
