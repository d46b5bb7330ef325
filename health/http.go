package health

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Request budgets applied on top of the caller's request context.
const (
	ReadinessTimeout = 5 * time.Second
	DetailedTimeout  = 10 * time.Second
)

// LivenessHandler returns an HTTP handler for liveness probes.
// This is a simple check that the process is serving requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns an HTTP handler for readiness probes.
// It runs the sequential strategy and writes the bare status name.
//
// The optional query parameters include and exclude take comma-separated
// tags, e.g. /readyz?include=db,cache.
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		status, err := agg.CheckSimple(ctx, filterFromQuery(r))
		if err != nil {
			writeCancelled(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(agg.ResultCodes().For(status))
		_, _ = w.Write([]byte(status.String()))
	}
}

// DetailedHandler returns an HTTP handler that writes the full JSON report.
// It honours the same include and exclude parameters as ReadinessHandler.
func DetailedHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), DetailedTimeout)
		defer cancel()

		report, err := agg.Check(ctx, filterFromQuery(r))
		if err != nil {
			writeCancelled(w, err)
			return
		}
		writeReport(w, report)
	}
}

// SingleCheckHandler returns an HTTP handler reporting one named check.
// An unknown name yields an Unknown report with NotFoundCode.
func SingleCheckHandler(agg *Aggregator, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		report, err := agg.CheckNamed(ctx, name)
		if err != nil {
			writeCancelled(w, err)
			return
		}
		writeReport(w, report)
	}
}

// RegisterHandlers registers all health check handlers on the given mux.
// Individual checks are served under /health/{name}.
func RegisterHandlers(mux *http.ServeMux, agg *Aggregator) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/readyz", ReadinessHandler(agg))
	mux.HandleFunc("/health", DetailedHandler(agg))
	mux.HandleFunc("GET /health/{name}", func(w http.ResponseWriter, r *http.Request) {
		SingleCheckHandler(agg, r.PathValue("name"))(w, r)
	})
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{
		Include: splitTags(q["include"]),
		Exclude: splitTags(q["exclude"]),
	}
}

func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func writeReport(w http.ResponseWriter, report *Report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(report.ResultCode)
	_ = json.NewEncoder(w).Encode(report)
}

func writeCancelled(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(err.Error()))
}
