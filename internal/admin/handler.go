// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/session"
)

type SessionStore interface {
	SweepExpired(ctx context.Context) (session.SweepResult, error)
	CountActive(ctx context.Context) (int64, error)
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	Sessions   SessionStore
	LoginPath  string
}

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	sessions   SessionStore
	loginPath  string
	page       *template.Template
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
		sessions:   cfg.Sessions,
		loginPath:  cfg.LoginPath,
		page:       dashboardTemplate,
	}
}

// RegisterRoutes mounts the JSON admin API under /admin.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	gate, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(gate)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Post("/sessions/sweep", h.SweepSessions)
	})
}

// RegisterPageRoutes mounts the HTML dashboard. Its gate redirects to the
// admin login page instead of answering 401.
func (h *Handler) RegisterPageRoutes(
	r chi.Router,
	gate, adminOnly func(http.Handler) http.Handler,
) {
	r.With(gate, adminOnly).Get("/admin", h.Dashboard)
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.collect(r.Context()))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, runtimeStats())
}

func (h *Handler) SweepSessions(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		core.NotFound(w, "session store")
		return
	}

	res, err := h.sessions.SweepExpired(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, res)
}

func (h *Handler) collect(ctx context.Context) SystemStatsResponse {
	return SystemStatsResponse{
		Database: StoreStatus[DBPoolStats]{
			Healthy: probe(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: StoreStatus[RedisPoolStats]{
			Healthy: probe(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Sessions: h.getSessionStats(ctx),
		Runtime:  runtimeStats(),
	}
}

func (h *Handler) getSessionStats(ctx context.Context) *SessionStats {
	if h.sessions == nil {
		return nil
	}

	n, err := h.sessions.CountActive(ctx)
	if err != nil {
		slog.WarnContext(ctx, "count active sessions failed", "error", err)
		return nil
	}

	return &SessionStats{Active: n}
}

func probe(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func runtimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
