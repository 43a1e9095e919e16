package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/biblianet/werset/core/biblia"
	werrors "github.com/biblianet/werset/core/errors"
	"github.com/biblianet/werset/internal/logging"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"service": "werset",
		"endpoints": []string{
			"/healthz",
			"/api/v1/translations",
			"/api/v1/passage?translation=<code>&ref=<citation>",
			"/api/v1/search?translation=<code>&q=<phrase>&page=<n>&limit=<n>",
			"/api/v1/original?q=<query>&page=<n|all>&limit=<n>",
			"/api/v1/original/stream",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	respond(w, http.StatusOK, map[string]any{"translations": biblia.Translations()})
}

func (s *Server) handlePassage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	translation := strings.TrimSpace(r.URL.Query().Get("translation"))
	ref := strings.TrimSpace(r.URL.Query().Get("ref"))
	if translation == "" || ref == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMETER", "translation and ref are required")
		return
	}

	p, err := s.engine.LookupPassage(r.Context(), translation, ref)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	q := r.URL.Query()
	translation := strings.TrimSpace(q.Get("translation"))
	phrase := strings.TrimSpace(q.Get("q"))
	if translation == "" || phrase == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMETER", "translation and q are required")
		return
	}
	page := intParam(q.Get("page"), 1)
	limit := intParam(q.Get("limit"), 0)

	res, err := s.engine.SearchPhrase(r.Context(), translation, phrase, page, limit)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (s *Server) handleOriginal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMETER", "q is required")
		return
	}
	// page=all collects every page server-side.
	page := 0
	if raw := q.Get("page"); raw != "" && raw != "all" {
		page = intParam(raw, 1)
	}
	limit := intParam(q.Get("limit"), 0)

	res, err := s.engine.SearchOriginal(r.Context(), query, page, limit)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respond(w, http.StatusOK, res)
}

// respondEngineError maps engine failures onto HTTP responses. Parse and
// translation mistakes get actionable messages; provider trouble stays
// generic, with the detail in the operator log.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isOneOf(err, werrors.ErrUnknownTranslation):
		respondError(w, http.StatusBadRequest, "UNKNOWN_TRANSLATION",
			err.Error()+"; supported: "+strings.Join(biblia.Translations(), ", "))
	case isOneOf(err, werrors.ErrParse):
		respondError(w, http.StatusBadRequest, "INVALID_CITATION", err.Error())
	case isOneOf(err, werrors.ErrNoResults):
		// The user answer stays generic; the status and body sample go
		// to the operator log.
		var nre *werrors.NoResultsError
		if werrors.As(err, &nre) {
			logging.NoResults(r.URL.Path, nre.Status, nre.Sample,
				"request_id", logging.GetRequestID(r.Context()))
		}
		respondError(w, http.StatusNotFound, "NO_RESULTS", "No results found")
	default:
		logging.ErrorContext(r.Context(), "provider failure", "error", err)
		respondError(w, http.StatusBadGateway, "PROVIDER_UNAVAILABLE",
			"Content provider is unavailable, try again later")
	}
}

func isOneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if werrors.Is(err, t) {
			return true
		}
	}
	return false
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func respond(w http.ResponseWriter, status int, data any) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
