package api

import (
	"net/http"

	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/session"
)

// settingsRequest mirrors the OpenAPI schema for PUT /sessions/{id}/settings.
type settingsRequest struct {
	Mode        *string `json:"mode"`
	ShowROR     *bool   `json:"show_ror"`
	Interpolate *bool   `json:"interpolate"`
}

type profileRequest struct {
	Name string `json:"name"`
}

type rowsRequest struct {
	Rows []model.RawRow `json:"rows"`
}

// SessionHandler serves session and profile endpoints.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleCreate handles POST /sessions requests.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.CreateSession(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id} requests.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /sessions/{id} requests.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSettings handles PUT /sessions/{id}/settings requests.
func (h *SessionHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	const op = "api.settings"
	var req settingsRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		fail(w, err)
		return
	}
	st := session.Settings{ShowROR: req.ShowROR, Interpolate: req.Interpolate}
	if req.Mode != nil {
		mode, err := model.ParseInputMode(*req.Mode)
		if err != nil {
			fail(w, err)
			return
		}
		st.Mode = &mode
	}
	view, err := h.deps.UpdateSettings(r.Context(), r.PathValue("id"), st)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleAddProfile handles POST /sessions/{id}/profiles requests. An empty
// body or name picks the next automatic name.
func (h *SessionHandler) HandleAddProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_profile"
	var req profileRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, op, &req); err != nil {
			fail(w, err)
			return
		}
	}
	p, err := h.deps.AddProfile(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleRenameProfile handles PATCH /sessions/{id}/profiles/{name} requests.
func (h *SessionHandler) HandleRenameProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.rename_profile"
	var req profileRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		fail(w, err)
		return
	}
	view, err := h.deps.RenameProfile(r.Context(), r.PathValue("id"), r.PathValue("name"), req.Name)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDeleteProfile handles DELETE /sessions/{id}/profiles/{name} requests.
func (h *SessionHandler) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.DeleteProfile(r.Context(), r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSetRows handles PUT /sessions/{id}/profiles/{name}/rows requests.
func (h *SessionHandler) HandleSetRows(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_rows"
	var req rowsRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		fail(w, err)
		return
	}
	if req.Rows == nil {
		req.Rows = []model.RawRow{}
	}
	p, err := h.deps.SetRows(r.Context(), r.PathValue("id"), r.PathValue("name"), req.Rows)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandlePaste handles POST /sessions/{id}/profiles/{name}/paste requests.
// The body is plain text, one row per line.
func (h *SessionHandler) HandlePaste(w http.ResponseWriter, r *http.Request) {
	const op = "api.paste"
	text, err := readText(w, r, op, maxJSONBody)
	if err != nil {
		fail(w, err)
		return
	}
	res, err := h.deps.PasteRows(r.Context(), r.PathValue("id"), r.PathValue("name"), text)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleTable handles GET /sessions/{id}/profiles/{name}/table requests.
func (h *SessionHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	derived, err := queryBool(r.URL.Query(), "derived")
	if err != nil {
		fail(w, err)
		return
	}
	table, err := h.deps.Table(r.Context(), r.PathValue("id"), r.PathValue("name"), derived != nil && *derived)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// HandleSync handles POST /sessions/{id}/sync requests.
func (h *SessionHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Synchronize(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleInspect handles GET /sessions/{id}/inspect requests.
func (h *SessionHandler) HandleInspect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := parseTime(q.Get("t"))
	if err != nil {
		fail(w, err)
		return
	}
	strategy, err := queryStrategy(q)
	if err != nil {
		fail(w, err)
		return
	}
	res, err := h.deps.Inspect(r.Context(), r.PathValue("id"), t, queryNames(q, "profiles"), strategy)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
