package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cosmoscope/cosmoscope/pkg/apperr"
	"github.com/cosmoscope/cosmoscope/pkg/models"
)

// handlerFunc is an HTTP handler whose errors are rendered by writeError.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) wrap(h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.writeError(w, r, err)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData writes a success envelope.
func (s *Server) writeData(w http.ResponseWriter, data any) error {
	writeJSON(w, http.StatusOK, models.Envelope{
		Success:   true,
		Data:      data,
		Timestamp: models.Timestamp(s.now()),
	})
	return nil
}

// writeList writes a success envelope carrying count.
func (s *Server) writeList(w http.ResponseWriter, data any, count int) error {
	writeJSON(w, http.StatusOK, models.Envelope{
		Success:   true,
		Data:      data,
		Count:     &count,
		Timestamp: models.Timestamp(s.now()),
	})
	return nil
}

// writeError renders err as an ErrorEnvelope. Crashes are logged at error
// level; their message is replaced in production.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.From(err)
	prod := s.cfg.IsProduction()

	attrs := []any{"method", r.Method, "path", r.URL.Path, "status", ae.StatusCode, "request_id", requestIDFrom(r.Context()), "error", err}
	switch {
	case !ae.Operational:
		s.logger.Error("request failed", attrs...)
	case ae.StatusCode >= 500:
		s.logger.Warn("request failed", attrs...)
	default:
		s.logger.Debug("request rejected", attrs...)
	}

	msg := ae.Message
	if prod && !ae.Operational {
		msg = "internal server error"
	}
	env := models.ErrorEnvelope{
		Error:     true,
		Message:   msg,
		Timestamp: models.Timestamp(s.now()),
		Path:      r.URL.Path,
		Method:    r.Method,
	}
	if !prod {
		env.Stack = ae.Stack()
	}
	writeJSON(w, ae.StatusCode, env)
}

// unmatched answers requests no route matched: 404 for unknown paths, 405
// when the path exists under another method.
func (s *Server) unmatched(w http.ResponseWriter, r *http.Request) {
	h, _ := s.mux.Handler(r)
	rec := &muxRecorder{header: http.Header{}}
	h.ServeHTTP(rec, r)

	if rec.status == http.StatusMethodNotAllowed {
		if allow := rec.header.Get("Allow"); allow != "" {
			w.Header().Set("Allow", allow)
		}
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorEnvelope{
			Error:     true,
			Message:   fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
			Timestamp: models.Timestamp(s.now()),
			Path:      r.URL.Path,
			Method:    r.Method,
		})
		return
	}
	s.writeError(w, r, apperr.NotFound(fmt.Sprintf("route %s %s not found", r.Method, r.URL.Path)))
}

// muxRecorder records what the mux's fallback handler would have sent.
type muxRecorder struct {
	header http.Header
	status int
}

func (p *muxRecorder) Header() http.Header { return p.header }

func (p *muxRecorder) Write(b []byte) (int, error) {
	if p.status == 0 {
		p.status = http.StatusOK
	}
	return len(b), nil
}

func (p *muxRecorder) WriteHeader(code int) {
	if p.status == 0 {
		p.status = code
	}
}

func pathValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}
