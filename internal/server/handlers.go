package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arloliu/tsln"
	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/internal/hash"
)

const (
	contentTypeJSON = "application/json"
	contentTypeTSLN = "text/plain; charset=utf-8"

	// CacheHeader reports "hit" or "miss" on cacheable routes.
	CacheHeader = "X-Cache"
	// RowsHeader carries the row count of an encoded document.
	RowsHeader = "X-TSLN-Rows"
	// FingerprintHeader carries the schema fingerprint of an encoded document.
	FingerprintHeader = "X-TSLN-Fingerprint"
)

type cachedResponse struct {
	contentType string
	header      http.Header
	body        []byte
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Row   *int   `json:"row,omitempty"`
	Field string `json:"field,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, func(body []byte) (*cachedResponse, int, error) {
		ds, err := parseDataset(body)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		opts, err := s.encoderOptions(r)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		doc, err := codec.Encode(ds, opts...)
		if err != nil {
			return nil, http.StatusUnprocessableEntity, err
		}

		header := http.Header{}
		header.Set(RowsHeader, strconv.Itoa(doc.Rows()))
		header.Set(FingerprintHeader, strconv.FormatUint(doc.Schema.Fingerprint(), 16))

		return &cachedResponse{contentType: contentTypeTSLN, header: header, body: []byte(doc.Text())}, 0, nil
	})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, func(body []byte) (*cachedResponse, int, error) {
		ds, err := codec.Decode(string(body))
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		var buf bytes.Buffer
		if err := dataset.WriteJSON(&buf, ds); err != nil {
			return nil, http.StatusInternalServerError, err
		}

		return &cachedResponse{contentType: contentTypeJSON, body: buf.Bytes()}, 0, nil
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, func(body []byte) (*cachedResponse, int, error) {
		ds, err := parseDataset(body)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		opts, err := s.encoderOptions(r)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		enc, err := codec.NewEncoder(opts...)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		res, err := enc.Analyze(ds)
		if err != nil {
			return nil, http.StatusUnprocessableEntity, err
		}

		return jsonResponse(NewAnalysisView(res))
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, func(body []byte) (*cachedResponse, int, error) {
		ds, err := parseDataset(body)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		opts, err := s.encoderOptions(r)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		report, err := tsln.CompareFormats(ds,
			tsln.WithEncoderOptions(opts...),
			tsln.WithMetricsOptions(s.metricsOpts...),
		)
		if err != nil {
			return nil, http.StatusUnprocessableEntity, err
		}

		return jsonResponse(NewReportView(report))
	})
}

// parseDataset rejects bodies of the wrong shape before decoding them.
func parseDataset(body []byte) (dataset.Dataset, error) {
	if err := dataset.ValidateJSON(body); err != nil {
		return nil, err
	}

	return dataset.ReadJSON(bytes.NewReader(body))
}

// encoderOptions applies the diff and repeat query parameters over the configured options.
func (s *Server) encoderOptions(r *http.Request) ([]codec.EncoderOption, error) {
	opts := s.cfg.EncoderOptions()

	query := r.URL.Query()
	for _, p := range []struct {
		name string
		opt  func(bool) codec.EncoderOption
	}{
		{"diff", codec.WithDifferential},
		{"repeat", codec.WithRepeatMarkers},
	} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("query parameter %s: %w", p.name, err)
		}
		opts = append(opts, p.opt(enabled))
	}

	return opts, nil
}

type handlerFunc func(body []byte) (*cachedResponse, int, error)

// cached reads the request body and serves the response of fn, memoized by
// route, query and body when the cache is enabled. A request past its
// deadline gets 503 and its result is not cached.
func (s *Server) cached(w http.ResponseWriter, r *http.Request, fn handlerFunc) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, r, status, err)

		return
	}

	if err := checkDeadline(r.Context()); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, err)
		return
	}

	key := hash.Parts([]byte(r.URL.Path), []byte(r.URL.RawQuery), body)
	if s.cache != nil {
		if resp, ok := s.cache.Get(key); ok {
			w.Header().Set(CacheHeader, "hit")
			resp.write(w)

			return
		}
	}

	resp, status, err := fn(body)
	if err != nil {
		s.writeError(w, r, status, err)
		return
	}
	if err := checkDeadline(r.Context()); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, err)
		return
	}

	if s.cache != nil {
		s.cache.Add(key, *resp)
		w.Header().Set(CacheHeader, "miss")
	}
	resp.write(w)
}

func (c *cachedResponse) write(w http.ResponseWriter) {
	for k, v := range c.header {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", c.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.body)
}

func jsonResponse(v any) (*cachedResponse, int, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &cachedResponse{contentType: contentTypeJSON, body: body}, 0, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var decErr *codec.DecodeError
	if errors.As(err, &decErr) {
		if decErr.Row != codec.HeaderRow {
			row := decErr.Row
			resp.Row = &row
		}
		resp.Field = decErr.Field
	}

	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
