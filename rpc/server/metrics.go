package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"net"
	"net/http"
	"time"
)

// Prometheus metric names
const (
	metricRequests     = "dtodo_requests_total"
	metricErrors       = "dtodo_request_errors_total"
	metricDuration     = "dtodo_request_duration_seconds"
	metricRequestBytes = "dtodo_request_size_bytes"
)

// observeRequest records one handled request. kind is the command kind or "invalid"
// if the request could not be decoded.
func observeRequest(kind string, reqSize int, start time.Time, err error) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`%s{command=%q}`, metricRequests, kind)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`%s{command=%q}`, metricDuration, kind)).UpdateDuration(start)
	metrics.GetOrCreateHistogram(metricRequestBytes).Update(float64(reqSize))

	if err != nil {
		metrics.GetOrCreateCounter(fmt.Sprintf(`%s{reason=%q}`, metricErrors, errorReason(err))).Inc()
	}
}

// errorReason maps an error to a metric label with a bounded set of values
func errorReason(err error) string {
	var decodeErr *common.DecodeError
	switch {
	case errors.Is(err, common.ErrOwnerNotFound):
		return "owner_not_found"
	case errors.Is(err, common.ErrOwnerExists):
		return "owner_exists"
	case errors.Is(err, common.ErrListExists):
		return "list_exists"
	case errors.Is(err, common.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, common.ErrInvalidCommand):
		return "invalid_command"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "internal"
	}
}

// metricsRouter serves the prometheus metrics on GET /metrics
func metricsRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			Logger.Debugf("metrics: %s %s => %d took %s", r.Method, r.URL.Path, m.Code, m.Duration)
		})
	})
	r.Methods(http.MethodGet).Path("/metrics").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	return r
}

// startMetricsServer serves the metrics on endpoint in the background
func startMetricsServer(endpoint string) (*http.Server, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on metrics endpoint: %v", err)
	}

	server := &http.Server{Handler: metricsRouter()}
	go func() {
		Logger.Infof("Serving metrics on http://%s/metrics", listener.Addr())
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics server stopped: %v", err)
		}
	}()
	return server, nil
}
