package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ImpactLab/internal/auth"
	"ImpactLab/internal/calc/impact"
	"ImpactLab/internal/calc/premium/batch"
	"ImpactLab/internal/calc/premium/importer"
	"ImpactLab/internal/calc/report"
	"ImpactLab/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Logger puts a request-scoped logger into the context and logs the
// outcome of every request.
func Logger(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_ip", r.RemoteAddr).
				Logger()

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(reqLogger.WithContext(r.Context())))

			reqLogger.Info().
				Int("status", sw.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func HandleList(r *mux.Router, cfg config.Config, gen *report.Generator) {
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Login: cfg.OperatorLogin, PasswordHash: cfg.OperatorHash}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")

	impactH := &impact.Handler{}
	reportH := &report.Handler{Generator: gen}
	api.HandleFunc("/tools/impact/calc", impactH.Calc).Methods("POST")
	api.HandleFunc("/tools/impact/report", reportH.Generate).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	batchH := &batch.Handler{}
	importerH := &importer.Handler{}
	secureApi.HandleFunc("/tools/impact/batch", batchH.Impact).Methods("POST")
	secureApi.HandleFunc("/tools/impact/import", importerH.Impact).Methods("POST")

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
}

func NewRouter(cfg config.Config, logger zerolog.Logger, gen *report.Generator) http.Handler {
	r := mux.NewRouter()
	r.Use(Logger(logger))
	HandleList(r, cfg, gen)
	return CORS(r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg config.Config, handler http.Handler) error {
	logger := zerolog.Ctx(ctx)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Bool("tls", cfg.TLS()).Msg("starting server")
		var err error
		if cfg.TLS() {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received, closing active connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
