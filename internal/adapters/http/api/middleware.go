package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/venkman/pkg/metrics"
)

// Ops route names used as the endpoint label.
const (
	routeHealth         = "healthz"
	routeMetrics        = "metrics"
	routeStats          = "stats"
	routeSessions       = "sessions"
	routeConfigurations = "configurations"
)

// instrument counts and times every request to route. Failed requests are
// also counted against the ops component by failure kind.
func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(route, r.Method, status)
		metrics.RecordHTTPRequestDuration(route, r.Method, status, float64(time.Since(start).Microseconds())/1000)

		if kind := failureKind(route, rec.status); kind != "" {
			metrics.RecordErrorByComponent("ops_http", kind)
		}
	}
}

// failureKind labels a failed ops request. Store failures behind
// /configurations are kept apart from other server errors.
func failureKind(route string, status int) string {
	switch {
	case status < http.StatusBadRequest:
		return ""
	case status >= http.StatusInternalServerError && route == routeConfigurations:
		return "store_error"
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "bad_request"
	}
}

// wantsMetrics reports whether an Accept header asks for the Prometheus
// text or OpenMetrics exposition.
func wantsMetrics(accept string) bool {
	return strings.Contains(accept, "application/openmetrics-text") || strings.Contains(accept, "text/plain")
}

// statusRecorder remembers the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming exposition writers working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
