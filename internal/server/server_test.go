package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/internal/config"
)

const tickerJSON = `[
{"timestamp":"2025-12-27T10:00:00.000Z","data":{"symbol":"AAPL","price":100}},
{"timestamp":"2025-12-27T10:00:01.000Z","data":{"symbol":"AAPL","price":101}},
{"timestamp":"2025-12-27T10:00:02.000Z","data":{"symbol":"AAPL","price":102.5}}
]`

const tickerTSLN = "#TSLN/1|ts=r:1000|base=1766829600000|rows=3|caps=diff,rep|fields=symbol:str:rep,price:num:diff\n" +
	"AAPL|100\n" +
	"=|+1\n" +
	"=|+1.5"

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	s, err := New(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	return s
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestEncode(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/encode", tickerJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, tickerTSLN, rec.Body.String())
	require.Equal(t, "3", rec.Header().Get(RowsHeader))
	require.NotEmpty(t, rec.Header().Get(FingerprintHeader))
	require.Equal(t, "miss", rec.Header().Get(CacheHeader))

	rec = do(t, s, http.MethodPost, "/v1/encode", tickerJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, tickerTSLN, rec.Body.String())
	require.Equal(t, "hit", rec.Header().Get(CacheHeader))
	require.Equal(t, "3", rec.Header().Get(RowsHeader))
}

func TestEncode_QueryOverrides(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/encode?diff=false", tickerJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	header, _, _ := strings.Cut(rec.Body.String(), "\n")
	require.Contains(t, header, "caps=rep|")
	require.Contains(t, header, "price:num:raw")

	rec = do(t, s, http.MethodPost, "/v1/encode?repeat=maybe", tickerJSON)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEncode_BadInput(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/encode", `{"not":"an array"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Error)
}

func TestEncode_SchemaViolation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/encode", `[{"timestamp": 1000, "data": {"a": {"b": 1}}}]`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "schema validation failed")
}

func TestEncode_BodyLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Server.MaxBodyBytes = 16 })

	rec := do(t, s, http.MethodPost, "/v1/encode", tickerJSON)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDecode(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Server.CacheSize = 0 })

	rec := do(t, s, http.MethodPost, "/v1/decode", tickerTSLN)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get(CacheHeader))

	got, err := dataset.ReadJSON(rec.Body)
	require.NoError(t, err)
	want, err := dataset.ReadJSON(strings.NewReader(tickerJSON))
	require.NoError(t, err)
	require.True(t, dataset.Equal(want, got))
}

func TestDecode_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/decode",
		"#TSLN/1|ts=r:1000|base=0|rows=2|caps=diff,rep|fields=v:num:diff\n1\nabc")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Row)
	require.Equal(t, 1, *resp.Row)
	require.Equal(t, "v", resp.Field)

	rec = do(t, s, http.MethodPost, "/v1/decode", "#TSLN/9|ts=r|base=0|rows=0|caps=|fields=")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp = ErrorResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Row)
	require.Contains(t, resp.Error, "header")
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/analyze", tickerJSON)
	require.Equal(t, http.StatusOK, rec.Code)

	var view AnalysisView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Fields, 2)
	require.Equal(t, "symbol", view.Fields[0].Name)
	require.Equal(t, "rep", view.Fields[0].Strategy)
	require.Equal(t, "price", view.Fields[1].Name)
	require.Equal(t, "diff", view.Fields[1].Strategy)
	require.Equal(t, "Increasing", view.Fields[1].Trend)
	require.Equal(t, "Regular", view.Timestamps.Mode)
	require.NotNil(t, view.Timestamps.Interval)
	require.Equal(t, int64(1000), *view.Timestamps.Interval)
	require.Equal(t, 3, view.Timestamps.Count)
}

func TestCompare(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Metrics.Compression = "s2" })

	rec := do(t, s, http.MethodPost, "/v1/compare", tickerJSON)
	require.Equal(t, http.StatusOK, rec.Code)

	var view ReportView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Formats, 4)
	require.Equal(t, "json", view.Formats[0].Name)
	require.Equal(t, "tsln", view.Formats[3].Name)
	require.Equal(t, "S2", view.Compression)
	require.True(t, view.Approximate)
	require.GreaterOrEqual(t, view.Savings, 0.0)
	for _, f := range view.Formats {
		require.Positive(t, f.CompressedSize, f.Name)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/v1/encode", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNew_InvalidMetrics(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Metrics.Tokenizer = "bogus"

	_, err = New(cfg, slog.New(slog.DiscardHandler))
	require.Error(t, err)
}

func TestStart_Shutdown(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Server.Addr = "127.0.0.1:0" })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := RequestIDMiddleware(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "request completed", entry["msg"])
	require.Equal(t, "/pot", entry["path"])
	require.InDelta(t, float64(http.StatusTeapot), entry["status"], 0)
	require.InDelta(t, 15.0, entry["bytes"], 0)
	require.Equal(t, rec.Header().Get(RequestIDHeader), entry["request_id"])
}

func TestTimeout(t *testing.T) {
	s := newTestServer(t, nil)
	h := TimeoutMiddleware(time.Nanosecond)(s)

	for _, target := range []string{"/v1/encode", "/v1/analyze", "/v1/compare"} {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(tickerJSON))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code, target)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Contains(t, resp.Error, ErrRequestTimeout.Error())
	}

	// a timed-out request leaves nothing in the cache
	rec := do(t, s, http.MethodPost, "/v1/encode", tickerJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "miss", rec.Header().Get(CacheHeader))
}

func TestCheckDeadline(t *testing.T) {
	require.NoError(t, checkDeadline(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	require.NoError(t, checkDeadline(ctx))
	cancel()
	require.ErrorIs(t, checkDeadline(ctx), ErrRequestTimeout)
	require.ErrorIs(t, checkDeadline(ctx), context.Canceled)

	past, cancelPast := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelPast()
	require.ErrorIs(t, checkDeadline(past), context.DeadlineExceeded)
}
