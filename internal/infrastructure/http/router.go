package httpserver

import (
	"context"
	"net/http"
	"time"

	"btcanalytics-service/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

func NewRouter(s *Server, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(correlate())
	r.Use(recoverer())
	r.Use(accessLog())

	r.Get("/", s.Root)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/readyz", s.Readyz)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-Trace-Id"},
			MaxAge:         300,
		}))
		r.Get("/data", s.GetData)
		r.Get("/history", s.GetHistory)
		r.Get("/stats", s.GetStats)
	})
	return r
}

// correlate echoes X-Request-ID and X-Trace-Id, minting uuids for missing
// ones. The request id is stored under chi's key so logx.WithFields finds it.
func correlate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := headerOrUUID(r, "X-Request-ID")
			tid := headerOrUUID(r, "X-Trace-Id")
			w.Header().Set("X-Request-ID", rid)
			w.Header().Set("X-Trace-Id", tid)
			ctx := context.WithValue(r.Context(), middleware.RequestIDKey, rid)
			ctx = context.WithValue(ctx, traceIDKey, tid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func headerOrUUID(r *http.Request, name string) string {
	if v := r.Header.Get(name); v != "" {
		return v
	}
	return uuid.NewString()
}

func recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logx.WithFields(r.Context()).Error("http.panic", zap.Any("error", rec))
					writeJSON(w, http.StatusInternalServerError, errorDTO{Error: msgInternal, Details: "panic"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog emits one http.request event per request once the handler returns.
func accessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			tid, _ := r.Context().Value(traceIDKey).(string)
			log := logx.WithFields(r.Context())
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("trace_id", tid),
				zap.Duration("duration", time.Since(start)),
			}
			if status >= http.StatusInternalServerError {
				log.Warn("http.request", fields...)
				return
			}
			log.Info("http.request", fields...)
		})
	}
}
