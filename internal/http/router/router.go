// Package router wires the employee handlers, health check and metrics
// endpoint onto one http.Handler with the shared middleware stack.
//
// Route table:
//
//	GET    /employees        list all employees
//	POST   /employees        create an employee
//	GET    /employees/{id}   get one employee
//	PUT    /employees/{id}   replace an employee's fields
//	DELETE /employees/{id}   delete an employee
//	GET    /healthz          storage ping
//	GET    /metrics          Prometheus exposition
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/aanand-mishra/employees-api/internal/http/handlers/employee"
	"github.com/aanand-mishra/employees-api/internal/http/metrics"
	"github.com/aanand-mishra/employees-api/internal/storage"
	"github.com/aanand-mishra/employees-api/internal/utils/response"
	"github.com/aanand-mishra/employees-api/internal/validation"
)

const healthTimeout = 2 * time.Second

// New builds the application handler around store.
func New(store storage.Storage, m *metrics.Metrics) http.Handler {
	validate := validation.New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /employees", employee.GetList(store))
	mux.HandleFunc("POST /employees", employee.New(store, validate))
	mux.HandleFunc("GET /employees/{id}", employee.GetByID(store))
	mux.HandleFunc("PUT /employees/{id}", employee.Update(store, validate))
	mux.HandleFunc("DELETE /employees/{id}", employee.Delete(store))
	mux.HandleFunc("GET /healthz", healthz(store))
	mux.Handle("GET /metrics", m.Handler())

	// Label metrics by the pattern the mux matched, or "unmatched" for 404s
	// and 405s, so raw paths never become label values.
	route := func(r *http.Request) string {
		if _, pattern := mux.Handler(r); pattern != "" {
			return pattern
		}
		return "unmatched"
	}

	var h http.Handler = mux
	h = middleware.Recoverer(h)
	h = accessLog(h)
	h = m.Middleware(route)(h)
	h = middleware.RealIP(h)
	h = middleware.RequestID(h)

	return h
}

func healthz(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError("storage unavailable"))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	}
}

// accessLog writes one structured line per request once it completes.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.Info("request completed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
