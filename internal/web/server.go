package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/internal/poll"
	"github.com/MrEthical07/campusdesk/metrics/export/prometheus"
	"github.com/MrEthical07/campusdesk/middleware"
	"github.com/MrEthical07/campusdesk/role"
)

// Origin tags every notice raised through the gateway.
const Origin = "gateway"

// Options are the optional collaborators of a [Server].
type Options struct {
	Logger *zap.Logger
	// Stats, when set, feeds the staff dashboards instead of a fetch per request.
	Stats *poll.StatsPoller
	// Metrics replaces the Prometheus handler mounted at /metrics.
	Metrics http.Handler
}

// Server is the portal gateway of one desk.
type Server struct {
	desk    *campusdesk.Desk
	cfg     campusdesk.GatewayConfig
	src     middleware.Source
	log     *zap.Logger
	stats   *poll.StatsPoller
	metrics http.Handler
}

// NewServer returns a gateway for desk. Requests are served under the desk's persisted
// session; with Gateway.TrustBearer a request carrying a bearer token is guarded as the
// session that token describes.
func NewServer(desk *campusdesk.Desk, opts Options) *Server {
	cfg := desk.Config()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var src middleware.Source = middleware.StoreSource{Store: desk.Store()}
	if cfg.Gateway.TrustBearer {
		src = middleware.BearerSource{Reader: desk.TokenReader(), Fallback: src}
	}

	metrics := opts.Metrics
	if metrics == nil && cfg.Metrics.Enabled {
		metrics = prometheus.Handler(desk)
	}

	return &Server{
		desk:    desk,
		cfg:     cfg.Gateway,
		src:     src,
		log:     log,
		stats:   opts.Stats,
		metrics: metrics,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.tagOrigin)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Get(middleware.UnauthorizedPath, s.handleUnauthorized)
	r.Get("/anonymous-complaint", s.handleAnonymousPage)
	r.Post("/anonymous-complaint", s.handleAnonymousComplaint)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicOnly(s.src))
		r.Get("/", s.handleSelectPortal)
		r.Get(middleware.SelectPortalPath, s.handleSelectPortal)
		r.Get("/login/{role}", s.handleLoginPage)
		r.Post("/login/{role}", s.handleLogin)
		r.Get("/register/{role}", s.handleRegisterPage)
		r.Post("/register/{role}", s.handleRegister)
		r.Get("/forgot-password/{role}", s.handleForgotPage)
		r.Post("/forgot-password/{role}", s.handleForgotPassword)
		r.Get("/reset-password/{token}", s.handleResetPage)
		r.Post("/reset-password/{token}", s.handleResetPassword)
	})

	for _, p := range role.AllPortals {
		r.Route(p.Prefix(), func(r chi.Router) {
			r.Use(middleware.RequirePortal(s.src, p))
			s.portalRoutes(r, p)
			r.NotFound(redirectTo(p.Dashboard()))
		})
	}

	r.NotFound(redirectTo(middleware.SelectPortalPath))

	return r
}

// Run listens on Gateway.Addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.ServeAddr(ctx, s.cfg.Addr)
}

// ServeAddr listens on addr until ctx is cancelled.
func (s *Server) ServeAddr(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down within
// Gateway.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("gateway listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("gateway stopped")
	return nil
}

func (s *Server) tagOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(campusdesk.WithRequestOrigin(r.Context(), Origin)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("gateway request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
}
