package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mydungeon/pkg/buildinfo"
	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/fetch"
	"github.com/matzehuels/mydungeon/pkg/pipeline"
)

// maxBodyBytes bounds request bodies; requests are a few short strings.
const maxBodyBytes = 1 << 16

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string      `json:"detail"`
	Code   errors.Code `json:"code"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.DiagnoseRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.runner.Diagnose(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	var req pipeline.CompatibilityRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.runner.Compatibility(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNumbers(w http.ResponseWriter, r *http.Request) {
	var req fetch.NumbersRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := errors.ValidateBirth(req.Birthdate, req.Birthtime); err != nil {
		s.respondError(w, r, err)
		return
	}
	numbers, err := s.runner.Fetcher.FetchNumbers(r.Context(), req.Birthdate, req.Birthtime)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if numbers == nil {
		numbers = []int{}
	}
	respondJSON(w, http.StatusOK, fetch.NumbersResponse{
		Numbers: numbers,
		Message: fmt.Sprintf("Retrieved %d numbers", len(numbers)),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "My Dungeon API is running",
		Version: buildinfo.Short(),
	})
}

func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rc, err := s.runner.Store.Open(r.Context(), name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("output copy interrupted", "name", name, "err", err)
	}
}

// decode reads a JSON body into v. It writes the error response itself and
// reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	} else {
		s.logger.Warn("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	respondJSON(w, status, ErrorResponse{Detail: errors.UserMessage(err), Code: code})
}

func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
