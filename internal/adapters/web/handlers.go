package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/moonandjupiter/consign-tracker/internal/session"
	"github.com/sirupsen/logrus"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "tracker_session"

// Handler holds the ApplicationService, the chi router, and the session store.
type Handler struct {
	svc      app.ApplicationService
	router   chi.Router
	sessions *session.Store
	log      *logrus.Logger
	now      func() time.Time
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, sessions *session.Store, log *logrus.Logger, allowedOrigins string) http.Handler {
	h := &Handler{
		svc:      svc,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Service ───────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Get("/api/schema", h.schema)

	// ── Dashboard (session-scoped) ────────────────────────────────────────────
	r.Get("/api/view", h.view)
	r.Post("/api/reload", h.reload)
	r.Post("/api/search", h.search)
	r.Post("/api/search/clear", h.clearSearch)
	r.Post("/api/search/select", h.selectSuggestion)
	r.Get("/api/suggestions", h.suggestions)
	r.Get("/api/suggestions/more", h.moreSuggestions)
	r.Post("/api/sort", h.sort)
	r.Post("/api/page", h.page)

	// ── Reports ───────────────────────────────────────────────────────────────
	r.Get("/api/reports/{co}/{sr}", h.reportDetails)
	r.Post("/api/reports/{co}/{sr}/confirm", h.confirmReport)

	// ── Export ────────────────────────────────────────────────────────────────
	r.Get("/api/export/xlsx", h.exportXLSX)
	r.Get("/api/export/html", h.exportHTML)

	h.router = r
	return r
}

// health returns service status and the configured record source.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status   string `json:"status"`
		Source   string `json:"source"`
		Sessions int    `json:"sessions"`
	}
	writeJSON(w, response{Status: "ok", Source: h.svc.SourceName(), Sessions: h.sessions.Len()})
}

// schema returns the JSON schemas of the record and view contracts.
func (h *Handler) schema(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Schemas()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// session resolves the caller's session from the cookie. A new session gets a
// cookie and an initial load; a failed load leaves the dashboard in its load
// error state, which the view reports.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess, created := h.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		if _, err := sess.Dashboard.Load(r.Context()); err != nil {
			h.log.WithError(err).WithField("session", sess.ID).Warn("initial record load failed")
		}
	}
	return sess
}

// coAndSR extracts the {co} and {sr} URL parameters.
func coAndSR(r *http.Request) (string, string) {
	return chi.URLParam(r, "co"), chi.URLParam(r, "sr")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.session(w, r).Dashboard.View())
}

// reload refetches the records for the session and re-runs its last search.
func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	vm, err := h.session(w, r).Dashboard.Load(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, vm)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	var req app.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vm, err := h.session(w, r).Dashboard.Search(req.Term)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, vm)
}

func (h *Handler) clearSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.session(w, r).Dashboard.Clear())
}

func (h *Handler) selectSuggestion(w http.ResponseWriter, r *http.Request) {
	var req app.SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vm, err := h.session(w, r).Dashboard.SelectSuggestion(req.Value)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, vm)
}

// suggestions handles GET /api/suggestions?term=...
func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.session(w, r).Dashboard.Suggest(r.URL.Query().Get("term"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, page)
}

// moreSuggestions returns the next batch; exhausted is true once nothing is left.
func (h *Handler) moreSuggestions(w http.ResponseWriter, r *http.Request) {
	page, ok, err := h.session(w, r).Dashboard.MoreSuggestions()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		core.SuggestionPage
		Exhausted bool `json:"exhausted"`
	}
	writeJSON(w, response{SuggestionPage: page, Exhausted: !ok})
}

func (h *Handler) sort(w http.ResponseWriter, r *http.Request) {
	var req app.SortRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vm, err := h.session(w, r).Dashboard.Sort(req.Column)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, vm)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	var req app.PageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d := h.session(w, r).Dashboard
	switch req.Step {
	case "next":
		writeJSON(w, d.NextPage())
	case "prev":
		writeJSON(w, d.PrevPage())
	case "":
		writeJSON(w, d.GoToPage(req.Page))
	default:
		writeError(w, r, "step must be next or prev", "BAD_REQUEST", http.StatusBadRequest)
	}
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (h *Handler) reportDetails(w http.ResponseWriter, r *http.Request) {
	co, sr := coAndSR(r)
	details, err := h.session(w, r).Dashboard.Details(co, sr)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, details)
}

func (h *Handler) confirmReport(w http.ResponseWriter, r *http.Request) {
	var req app.ConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	co, sr := coAndSR(r)
	details, err := h.session(w, r).Dashboard.Confirm(co, sr, req.TermsAccepted)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, details)
}
