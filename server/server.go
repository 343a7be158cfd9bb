// Package server exposes the trajectory predictor over HTTP for the
// browser game: a JSON prediction endpoint, a health check and Prometheus
// metrics, with permissive CORS so the canvas page can call cross-origin.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Noofbiz/thermcast/flight"
	"github.com/Noofbiz/thermcast/gibbs"
	"github.com/Noofbiz/thermcast/ising"
	"github.com/Noofbiz/thermcast/predict"
)

const maxRequestBodyBytes = 1 << 20 // 1 MB

// methodName identifies the predictor in responses so the game can tell a
// real forecast from its local fallback.
const methodName = "gibbs-ising"

// Server handles the prediction API.
type Server struct {
	predictor *predict.Predictor
	logger    *slog.Logger
}

// NewServer creates the API server around a configured predictor.
func NewServer(p *predict.Predictor, logger *slog.Logger) *Server {
	return &Server{
		predictor: p,
		logger:    logger.With("component", "server"),
	}
}

// Handler returns the HTTP handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.withRequestLog(withCORS(mux))
}

// Wire types follow the original game protocol: pipe fields are pointers so
// a payload with an absent key is rejected instead of defaulting to zero.
type predictRequest struct {
	BirdY    *float64      `json:"birdY"`
	Velocity *float64      `json:"velocity"`
	Pipes    []pipePayload `json:"pipes"`
}

type pipePayload struct {
	X         *float64 `json:"x"`
	TopHeight *float64 `json:"topHeight"`
	BottomY   *float64 `json:"bottomY"`
}

type predictResponse struct {
	Status       string              `json:"status"`
	Trajectories []flight.Trajectory `json:"trajectories"`
	Heatmap      []float64           `json:"heatmap"`
	Method       string              `json:"method"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Method  string `json:"method"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req predictRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, failureKindValidation, "invalid JSON body")
		return
	}
	if req.BirdY == nil || req.Velocity == nil {
		s.writeFailure(w, http.StatusBadRequest, failureKindValidation, "birdY and velocity are required")
		return
	}
	pipes := make([]ising.Pipe, 0, len(req.Pipes))
	for _, p := range req.Pipes {
		if p.X == nil || p.TopHeight == nil || p.BottomY == nil {
			s.writeFailure(w, http.StatusBadRequest, failureKindValidation, "each pipe requires x, topHeight and bottomY")
			return
		}
		pipes = append(pipes, ising.Pipe{X: *p.X, GapTop: *p.TopHeight, GapBottom: *p.BottomY})
	}

	result, err := s.predictor.Predict(predict.Request{
		Height:   *req.BirdY,
		Velocity: *req.Velocity,
		Pipes:    pipes,
	})
	if err != nil {
		status := http.StatusInternalServerError
		kind := failureKindInternal
		switch {
		case errors.Is(err, ising.ErrInvalidInput):
			status = http.StatusBadRequest
			kind = failureKindValidation
		case errors.Is(err, gibbs.ErrNumeric):
			kind = failureKindNumeric
		}
		s.logger.Error("prediction failed",
			"error", err,
			"status", status,
			"kind", kind)
		s.writeFailure(w, status, kind, err.Error())
		return
	}

	predictionsTotal.WithLabelValues("success").Inc()
	predictionLatency.Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, predictResponse{
		Status:       "success",
		Trajectories: result.Trajectories,
		Heatmap:      result.Heatmap,
		Method:       methodName,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "thermcast server running",
	})
}

// Failure kinds for the failures_total metric.
const (
	failureKindValidation = "validation"
	failureKindNumeric    = "numeric"
	failureKindInternal   = "internal"
)

// writeFailure reports a failed prediction. The game treats method
// "fallback" as the signal to switch to its local deterministic forecast.
func (s *Server) writeFailure(w http.ResponseWriter, status int, kind, msg string) {
	predictionsTotal.WithLabelValues("error").Inc()
	predictionFailures.WithLabelValues(kind).Inc()
	writeJSON(w, status, errorResponse{
		Status:  "error",
		Message: msg,
		Method:  "fallback",
	})
}

// writeJSON writes v as JSON with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// withCORS allows the browser game to call the API from any origin and
// answers OPTIONS preflights directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
