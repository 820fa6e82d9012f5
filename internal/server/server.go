// Package server wires the HTTP surface: router, middleware, and the
// per-resource handlers for the dashboard API.
package server

import (
	"crypto/rand"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"homedash/dashd/internal/auth"
	"homedash/dashd/internal/config"
	"homedash/dashd/internal/probe"
	"homedash/dashd/internal/ratelimit"
	"homedash/dashd/internal/sessions"
	"homedash/dashd/internal/store"
	"homedash/dashd/internal/weather"
	"homedash/dashd/pkg/httpx"
)

type Server struct {
	cfg      config.Config
	log      zerolog.Logger
	store    *store.Store
	auth     *auth.Authenticator
	sessions sessions.Store
	limiter  *ratelimit.Limiter
	prober   *probe.Prober
	weather  *weather.Client
	codec    *securecookie.SecureCookie
}

func New(cfg config.Config, log zerolog.Logger) *Server {
	st := store.New(cfg.DataDir)
	secret := cfg.SessionSecret
	if len(secret) == 0 {
		// Ephemeral per-process key: sessions are in-memory anyway, so
		// cookies from a previous process are dead either way.
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			b := make([]byte, 32)
			_, _ = rand.Read(b)
			secret = b
		}
	}
	return &Server{
		cfg:      cfg,
		log:      log,
		store:    st,
		auth:     auth.New(st, cfg.DefaultPassword),
		sessions: sessions.NewMemoryStore(cfg.SessionTTL),
		limiter:  ratelimit.New(filepath.Join(cfg.DataDir, "ratelimit.json")),
		prober:   probe.New(probe.DefaultTimeout),
		weather:  weather.NewClient(),
		codec:    securecookie.New(secret, nil),
	}
}

// Close flushes buffered rate-limit buckets to disk; call once after
// the HTTP server has drained.
func (s *Server) Close() error {
	return s.limiter.Flush()
}

// Router builds the chi handler tree for /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(s.log))
	r.Use(securityHeaders)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)
	r.Use(s.apiRateLimit)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteData(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/login", s.handleLogin)
		ar.Post("/logout", s.handleLogout)
		ar.Get("/status", s.handleAuthStatus)
		ar.With(s.requireAuth).Post("/change-password", s.handleChangePassword)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)

		pr.Route("/api/apps", func(ar chi.Router) {
			ar.Get("/", s.handleListAppGroups)
			ar.Post("/", s.handleCreateAppGroup)
			ar.Put("/{group}", s.handleUpdateAppGroup)
			ar.Delete("/{group}", s.handleDeleteAppGroup)
			ar.Post("/{group}/apps", s.handleAddApp)
			ar.Delete("/{group}/apps/{name}", s.handleDeleteApp)
		})

		pr.Route("/api/bookmarks", func(br chi.Router) {
			br.Get("/", s.handleListBookmarks)
			br.Post("/", s.handleCreateBookmark)
			br.Put("/{name}", s.handleUpdateBookmark)
			br.Delete("/{name}", s.handleDeleteBookmark)
		})

		pr.Route("/api/services", func(sr chi.Router) {
			sr.Get("/", s.handleListServices)
			sr.Post("/", s.handleCreateService)
			sr.Post("/ping", s.handlePing)
			sr.Put("/{name}", s.handleUpdateService)
			sr.Delete("/{name}", s.handleDeleteService)
		})

		pr.Get("/api/settings", s.handleGetSettings)
		pr.Put("/api/settings", s.handleUpdateSettings)

		pr.Get("/api/weather", s.handleWeather)
	})

	return r
}

// apiRateLimit applies the global fixed window per caller address.
func (s *Server) apiRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow("api:"+remoteIP(r), s.cfg.RateAPIPer15m, 15*time.Minute) {
			httpx.WriteError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
