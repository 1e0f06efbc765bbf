package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/njchilds90/gonewton/internal/cache"
	"github.com/njchilds90/gonewton/internal/logging"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(opts ...Option) *Server {
	return New(append([]Option{WithLogger(logging.NewNop())}, opts...)...)
}

func postRoot(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/newton-raphson/root", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return rr, resp
}

func TestHandleRoot_Converged(t *testing.T) {
	h := newTestServer().Handler()

	rr, resp := postRoot(t, h, `{"function": "x^2 - 2", "initial_guess": 1, "tolerance": 0.0001}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, true, resp["converged"])
	assert.InDelta(t, 1.41421356, resp["root_approximation"], 1e-8)
	assert.InDelta(t, 0, resp["function_value_at_root"], 1e-10)
	assert.InDelta(t, 2.82842712, resp["derivative_value_at_root"], 1e-7)

	table, ok := resp["iteration_table"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, table, int(resp["iterations"].(float64))+1)
	assert.Contains(t, table, "0")
}

func TestHandleRoot_StringNumbers(t *testing.T) {
	h := newTestServer().Handler()

	rr, resp := postRoot(t, h, `{"function": "x^2 - 10", "initial_guess": "3", "tolerance": "1e-8"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.InDelta(t, 3.1622776601, resp["root_approximation"], 1e-9)
}

func TestHandleRoot_NotConverged(t *testing.T) {
	h := newTestServer().Handler()

	rr, resp := postRoot(t, h, `{"function": "x^3 - 2x + 2", "initial_guess": 0, "tolerance": 1e-6}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, resp["converged"])
	assert.Equal(t, float64(1000), resp["iterations"])
	assert.Contains(t, resp["message"], "Maximum iterations (1000)")
	assert.NotContains(t, resp, "root_approximation")
}

func TestHandleRoot_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		kind string
	}{
		{"parse", `{"function": "x^^2", "initial_guess": 1, "tolerance": 1e-6}`, http.StatusUnprocessableEntity, "parse"},
		{"unknown identifier", `{"function": "y + 1", "initial_guess": 1, "tolerance": 1e-6}`, http.StatusUnprocessableEntity, "parse"},
		{"singular", `{"function": "x^2 - 4", "initial_guess": 0, "tolerance": 1e-6}`, http.StatusUnprocessableEntity, "singular_derivative"},
		{"evaluation", `{"function": "ln(x)", "initial_guess": -1, "tolerance": 1e-6}`, http.StatusUnprocessableEntity, "evaluation"},
		{"zero tolerance", `{"function": "x - 1", "initial_guess": 1, "tolerance": 0}`, http.StatusUnprocessableEntity, "input"},
		{"non-numeric guess", `{"function": "x - 1", "initial_guess": "one", "tolerance": 1e-6}`, http.StatusUnprocessableEntity, "input"},
		{"missing tolerance", `{"function": "x - 1", "initial_guess": 1}`, http.StatusUnprocessableEntity, "input"},
		{"malformed json", `{"function": `, http.StatusBadRequest, "input"},
	}
	h := newTestServer().Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := postRoot(t, h, tt.body)
			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, "error", resp["status"])
			assert.Equal(t, tt.kind, resp["kind"])
			assert.NotEmpty(t, resp["message"])
		})
	}
}

func TestHandleRoot_BudgetExceeded(t *testing.T) {
	h := newTestServer(WithBudget(time.Nanosecond)).Handler()

	rr, resp := postRoot(t, h, `{"function": "x^3 - 2x + 2", "initial_guess": 0, "tolerance": 1e-6}`)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "budget", resp["kind"])
}

func TestHandleRoot_Cache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c := cache.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	s := newTestServer(WithCache(c))
	h := s.Handler()
	body := `{"function": "x^3 - 2x - 5", "initial_guess": 2, "tolerance": 1e-6}`

	rr1, _ := postRoot(t, h, body)
	require.Equal(t, http.StatusOK, rr1.Code)
	assert.Len(t, mr.Keys(), 1)

	rr2, _ := postRoot(t, h, `{"function": "x^3-2*x-5", "initial_guess": "2", "tolerance": 0.000001}`)
	require.Equal(t, http.StatusOK, rr2.Code)
	assert.Equal(t, rr1.Body.String(), rr2.Body.String())

	rr3, _ := postRoot(t, h, `{"function": "x^2 - 4", "initial_guess": 0, "tolerance": 1e-6}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr3.Code)
	assert.Len(t, mr.Keys(), 1, "errors are not cached")
}

func TestHandleRoot_CacheDownStillServes(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := cache.NewFromClient(backend.NewClient(&backend.Options{
		Addr:        mr.Addr(),
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	}))
	mr.Close()

	h := newTestServer(WithCache(c)).Handler()
	rr, resp := postRoot(t, h, `{"function": "x - 3", "initial_guess": 0, "tolerance": 1e-6}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.InDelta(t, 3, resp["root_approximation"], 1e-12)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer().Handler()
	postRoot(t, h, `{"function": "x - 1", "initial_guess": 0, "tolerance": 1e-6}`)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `gonewton_solve_requests_total{status="converged",transport="http"} 1`)
	assert.Contains(t, rr.Body.String(), "gonewton_solve_iterations_bucket")
}

func TestHTTPServer_Timeouts(t *testing.T) {
	srv := newTestServer().httpServer(":0")
	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadTimeout, "default")
	assert.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)

	srv = newTestServer(WithReadTimeout(3 * time.Second)).httpServer(":0")
	assert.Equal(t, 3*time.Second, srv.ReadTimeout)
	assert.NotNil(t, srv.Handler)
}

func TestCORS(t *testing.T) {
	h := newTestServer(WithAllowedOrigins([]string{"http://localhost:3000"})).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/newton-raphson/root", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/newton-raphson/root", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

type frame struct {
	Type   string                 `json:"type"`
	Record map[string]float64     `json:"record"`
	Result map[string]interface{} `json:"result"`
}

func dialWS(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newTestServer().Handler())
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUntilResult(t *testing.T, conn *websocket.Conn) ([]frame, frame) {
	t.Helper()
	var records []frame
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == "result" {
			return records, f
		}
		require.Equal(t, "iteration", f.Type)
		records = append(records, f)
	}
}

func TestWebSocket_StreamsTrace(t *testing.T) {
	conn := dialWS(t)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"function": "x cos(x) - x^2", "initial_guess": 1, "tolerance": 1e-6,
	}))
	records, result := readUntilResult(t, conn)

	require.Equal(t, true, result.Result["converged"])
	assert.InDelta(t, 0.739085133215161, result.Result["root_approximation"], 1e-9)
	require.Len(t, records, int(result.Result["iterations"].(float64))+1)
	for i, rec := range records {
		assert.Equal(t, float64(i), rec.Record["iteration"])
	}
	assert.Equal(t, float64(0), records[0].Record["step"])

	// The connection accepts further requests.
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"function": "x^2 - 4", "initial_guess": 0, "tolerance": 1e-6,
	}))
	records, result = readUntilResult(t, conn)
	assert.Len(t, records, 1, "only the seed is streamed before a singular derivative")
	assert.Equal(t, "singular_derivative", result.Result["kind"])
}

func TestWebSocket_BadMessage(t *testing.T) {
	conn := dialWS(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	records, result := readUntilResult(t, conn)

	assert.Empty(t, records)
	assert.Equal(t, "error", result.Result["status"])
	assert.Equal(t, "input", result.Result["kind"])
}
