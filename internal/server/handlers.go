package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/veilproj/veil/internal/otel"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	}
	if r.URL.Query().Get("detail") == "true" {
		capabilities := map[string]string{
			"patterns": "ok",
		}
		if s.engine.NERAvailable() {
			capabilities["ner"] = "ok"
		} else {
			capabilities["ner"] = "disabled"
		}
		if s.engine.SyntheticAvailable() {
			capabilities["synthetic"] = "ok"
		} else {
			capabilities["synthetic"] = "disabled"
		}
		resp["capabilities"] = capabilities
	}
	writeJSON(w, http.StatusOK, resp)
}

// readBody reads the whole request body under the configured cap. A body
// over the cap yields a 413 via the returned error flag.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body exceeds limit")
			return "", false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "reading request body: "+err.Error())
		return "", false
	}
	return string(body), true
}

// handleRedact redacts the plain-text request body and returns the full
// RedactionResult as JSON. Any body is processable; there is no invalid
// input for the engine.
func (s *Server) handleRedact(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	res := s.engine.Redact(r.Context(), text)
	log.Info().
		Func(otel.LogTraceFields(r.Context())).
		Str("caller", callerFromContext(r.Context())).
		Int("redactions", res.Counts.Total()).
		Float64("pii_score", res.PIIScore).
		Msg("redact_request")
	writeJSON(w, http.StatusOK, res)
}

// flushWriter forwards writes to the response and flushes after each one,
// so redacted text reaches the client as it is produced and a mid-stream
// failure shows up as prompt truncation rather than a stalled connection.
type flushWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func newFlushWriter(w http.ResponseWriter) flushWriter {
	f, _ := w.(http.Flusher)
	return flushWriter{w: w, f: f}
}

func (fw flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if fw.f != nil {
		fw.f.Flush()
	}
	return n, err
}

// handleRedactStream streams redacted plain text back line by line without
// buffering the document. Counters and score go to the log only; clients
// that need them use /v1/redact.
func (s *Server) handleRedactStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res, err := s.engine.RedactStream(r.Context(), http.MaxBytesReader(w, r.Body, s.maxBodyBytes), newFlushWriter(w))
	if err != nil {
		// Headers are already sent; all we can do is log and drop.
		log.Error().Err(err).Msg("redact_stream_error")
		return
	}
	log.Info().
		Func(otel.LogTraceFields(r.Context())).
		Str("caller", callerFromContext(r.Context())).
		Int("redactions", res.Counts.Total()).
		Float64("pii_score", res.PIIScore).
		Msg("redact_stream_request")
}

// handleScan analyzes the body without returning rewritten text: counters,
// risk score, and advisory NER entities.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	res := s.engine.Scan(r.Context(), text)
	writeJSON(w, http.StatusOK, res)
}

// handlePatterns lists the active detector chain in application order.
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	detectors := s.engine.Detectors()
	out := make([]map[string]string, 0, len(detectors))
	for _, d := range detectors {
		out = append(out, map[string]string{
			"name":     d.Name,
			"category": string(d.Category),
			"regex":    d.Pattern.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"patterns": out})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.dashboardHTML == "" {
		writeError(w, http.StatusNotFound, "not_found", "dashboard not enabled")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.dashboardHTML))
}
