package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/njchilds90/gonewton"
	"github.com/njchilds90/gonewton/internal/cache"
)

// handleRoot handles POST /api/newton-raphson/root.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req gonewton.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var ie *gonewton.InputError
		if errors.As(err, &ie) {
			s.writeResult(w, start, gonewton.ResultFromError(ie))
			return
		}
		s.metrics.Requests.WithLabelValues("http", "bad_request").Inc()
		res := gonewton.ResultFromError(&gonewton.InputError{Field: "request body", Msg: err.Error()})
		writeJSON(w, http.StatusBadRequest, res)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeResult(w, start, gonewton.ResultFromError(err))
		return
	}
	fn, err := gonewton.Compile(req.Function)
	if err != nil {
		s.writeResult(w, start, gonewton.ResultFromError(err))
		return
	}

	key := cache.Key(fn, req.InitialGuess, req.Tolerance, s.precision)
	if payload, ok := s.lookup(r.Context(), key); ok {
		s.metrics.Requests.WithLabelValues("http", "cached").Inc()
		s.metrics.Duration.WithLabelValues("http").Observe(time.Since(start).Seconds())
		writeBody(w, http.StatusOK, payload)
		return
	}

	res, err := gonewton.FindRoot(r.Context(), fn, req.InitialGuess, req.Tolerance, s.options()...)
	if err != nil {
		res = gonewton.ResultFromError(err)
	}
	body, err := json.Marshal(res)
	if err != nil {
		s.logger.Error("failed to encode result", "error", err)
		http.Error(w, "failed to encode result", http.StatusInternalServerError)
		return
	}
	code := statusFor(res)
	if code == http.StatusOK {
		s.store(r.Context(), key, body)
	}
	s.observe("http", start, res)
	writeBody(w, code, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if s.cache != nil {
		resp["cache"] = "ok"
		if err := s.cache.Ping(r.Context()); err != nil {
			resp["cache"] = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// lookup reads the cache. Cache failures are logged and treated as misses.
func (s *Server) lookup(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.Cache.WithLabelValues("error").Inc()
		s.logger.Warn("cache lookup failed", "error", err)
		return nil, false
	case ok:
		s.metrics.Cache.WithLabelValues("hit").Inc()
		return payload, true
	}
	s.metrics.Cache.WithLabelValues("miss").Inc()
	return nil, false
}

func (s *Server) store(ctx context.Context, key string, payload []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, key, payload); err != nil {
		s.metrics.Cache.WithLabelValues("error").Inc()
		s.logger.Warn("cache store failed", "error", err)
	}
}

func (s *Server) writeResult(w http.ResponseWriter, start time.Time, res gonewton.Result) {
	s.observe("http", start, res)
	writeJSON(w, statusFor(res), res)
}

// observe records metrics and a debug log line for a finished request.
func (s *Server) observe(transport string, start time.Time, res gonewton.Result) {
	elapsed := time.Since(start)
	label := string(res.Status)
	if res.Status == gonewton.StatusError {
		label = string(res.ErrorKind)
	} else {
		s.metrics.Iterations.Observe(float64(res.Iterations))
	}
	s.metrics.Requests.WithLabelValues(transport, label).Inc()
	s.metrics.Duration.WithLabelValues(transport).Observe(elapsed.Seconds())
	s.logger.Debug("solve finished",
		"transport", transport,
		"status", label,
		"iterations", res.Iterations,
		"duration", elapsed,
	)
}

// statusFor maps a result onto its HTTP status code.
func statusFor(res gonewton.Result) int {
	if res.Status != gonewton.StatusError {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case gonewton.KindBudget:
		return http.StatusServiceUnavailable
	case gonewton.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	writeBody(w, code, body)
}

func writeBody(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
