// Package api exposes teller sessions and branch history over HTTP/JSON.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/logger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// Handler serves the reconciliation API for one Ledger.
type Handler struct {
	ledger   *ledger.Ledger
	sessions *Registry
}

func NewHandler(l *ledger.Ledger) *Handler {
	return &Handler{ledger: l, sessions: NewRegistry()}
}

// NewRouter mounts every endpoint with request ids, recovery and request logging.
func NewRouter(h *Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/catalog", h.Catalog)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.CloseSession)
			r.Post("/date", h.SelectDate)
			r.Post("/load-previous", h.LoadPrevious)
			r.Put("/fields/{field}", h.SetField)
			r.Put("/exchange", h.SetExchange)
			r.Post("/post", h.Post)
			r.Post("/advance", h.Advance)
		})
	})

	r.Get("/entries", h.ListEntries)
	r.Get("/audit", h.Audit)

	return r
}

type createSessionRequest struct {
	Corporation string `json:"corporation"`
	Branch      string `json:"branch"`
	Teller      string `json:"teller"`
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	req.Corporation = strings.TrimSpace(req.Corporation)
	req.Branch = strings.TrimSpace(req.Branch)
	if req.Corporation == "" || req.Branch == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "corporation and branch are required")
		return
	}

	s := h.ledger.NewSession(req.Corporation, req.Branch, req.Teller)
	id := h.sessions.add(s)

	log := logger.FromContext(r.Context())
	log.Info().
		Str("session_id", id).
		Str("corporation", req.Corporation).
		Str("branch", req.Branch).
		Msg("session opened")

	writeJSON(w, http.StatusCreated, newSessionView(id, s))
}

// withSession resolves {id} and runs fn while holding that session's lock.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, s *ledger.Session)) {
	id := chi.URLParam(r, "id")
	slot, ok := h.sessions.get(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "Session not found")
		return
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	fn(id, slot.session)
}

// GetSession handles GET /sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, s *ledger.Session) {
		writeJSON(w, http.StatusOK, newSessionView(id, s))
	})
}

// CloseSession handles DELETE /sessions/{id}. Unposted edits are discarded.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.remove(chi.URLParam(r, "id")) {
		writeJSONError(w, http.StatusNotFound, "not_found", "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type selectDateRequest struct {
	Date string `json:"date"`
}

// SelectDate handles POST /sessions/{id}/date.
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req selectDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	h.withSession(w, r, func(id string, s *ledger.Session) {
		s.OnDateSelected(r.Context(), date)
		writeJSON(w, http.StatusOK, newSessionView(id, s))
	})
}

// LoadPrevious handles POST /sessions/{id}/load-previous.
func (h *Handler) LoadPrevious(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, s *ledger.Session) {
		if _, err := s.LoadPreviousBalance(); err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSessionView(id, s))
	})
}

type setFieldRequest struct {
	Value string `json:"value"`
}

// SetField handles PUT /sessions/{id}/fields/{field}.
// Malformed numbers are accepted and reported as blockers in the evaluation.
func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	field := chi.URLParam(r, "field")

	h.withSession(w, r, func(id string, s *ledger.Session) {
		if _, err := s.OnFieldChanged(field, req.Value); err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSessionView(id, s))
	})
}

type setExchangeRequest struct {
	Lines []models.ExchangeLine `json:"lines"`
}

// SetExchange handles PUT /sessions/{id}/exchange. The php_total of each line is recomputed.
func (h *Handler) SetExchange(w http.ResponseWriter, r *http.Request) {
	var req setExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	h.withSession(w, r, func(id string, s *ledger.Session) {
		if _, err := s.SetExchangeLines(req.Lines); err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSessionView(id, s))
	})
}

type postResponse struct {
	Entry   *models.LedgerEntry `json:"entry"`
	Session SessionView         `json:"session"`
}

// Post handles POST /sessions/{id}/post.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, s *ledger.Session) {
		res := s.AttemptPost(r.Context())
		if !res.OK {
			writeLedgerError(w, res.Err())
			return
		}
		writeJSON(w, http.StatusCreated, postResponse{Entry: res.Entry, Session: newSessionView(id, s)})
	})
}

// Advance handles POST /sessions/{id}/advance.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(id string, s *ledger.Session) {
		if _, err := s.AdvanceDay(r.Context()); err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSessionView(id, s))
	})
}

// Catalog handles GET /catalog.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.ledger.Catalog().All()})
}

type branchRange struct {
	corporation string
	branch      string
	from, to    time.Time
}

// parseRange reads corporation, branch, from and to. Dates default to the last 31 days.
func parseRange(r *http.Request) (branchRange, string) {
	q := r.URL.Query()
	br := branchRange{corporation: q.Get("corporation"), branch: q.Get("branch")}
	if br.corporation == "" || br.branch == "" {
		return br, "corporation and branch are required"
	}

	br.to = models.Day(time.Now())
	if v := q.Get("to"); v != "" {
		t, err := models.ParseDate(v)
		if err != nil {
			return br, err.Error()
		}
		br.to = t
	}
	br.from = br.to.AddDate(0, 0, -30)
	if v := q.Get("from"); v != "" {
		t, err := models.ParseDate(v)
		if err != nil {
			return br, err.Error()
		}
		br.from = t
	}
	if br.from.After(br.to) {
		return br, "from must not be after to"
	}
	return br, ""
}

// ListEntries handles GET /entries.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	br, problem := parseRange(r)
	if problem != "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", problem)
		return
	}

	entries, err := h.ledger.Entries(r.Context(), br.corporation, br.branch, br.from, br.to)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("failed to list entries")
		writeJSONError(w, http.StatusServiceUnavailable, "storage_failure", "Failed to list entries")
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// Audit handles GET /audit.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	br, problem := parseRange(r)
	if problem != "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", problem)
		return
	}

	findings, err := h.ledger.AuditBranch(r.Context(), br.corporation, br.branch, br.from, br.to)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("failed to audit branch")
		writeJSONError(w, http.StatusServiceUnavailable, "storage_failure", "Failed to read entries")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"clean":    len(findings) == 0,
		"findings": findingViews(findings),
	})
}
