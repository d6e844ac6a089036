package api

import (
	"net/http"

	"github.com/okian/roastcurve/internal/domain/model"
)

// deriveRequest mirrors the OpenAPI schema for POST /derive.
type deriveRequest struct {
	Mode string         `json:"mode"`
	Rows []model.RawRow `json:"rows"`
}

// parseRequest mirrors the OpenAPI schema for POST /parse.
type parseRequest struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

// PipelineHandler serves the stateless parse and derive endpoints.
type PipelineHandler struct {
	deps PipelineDependencies
}

// NewPipelineHandler creates a new pipeline handler.
func NewPipelineHandler(deps PipelineDependencies) *PipelineHandler {
	return &PipelineHandler{deps: deps}
}

// HandleDerive handles POST /derive requests.
func (h *PipelineHandler) HandleDerive(w http.ResponseWriter, r *http.Request) {
	const op = "api.derive"
	var req deriveRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		fail(w, err)
		return
	}
	mode, err := model.ParseInputMode(req.Mode)
	if err != nil {
		fail(w, err)
		return
	}
	res, err := h.deps.Derive(r.Context(), mode, req.Rows)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleParse handles POST /parse requests.
func (h *PipelineHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	const op = "api.parse"
	var req parseRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		fail(w, err)
		return
	}
	mode, err := model.ParseInputMode(req.Mode)
	if err != nil {
		fail(w, err)
		return
	}
	res, err := h.deps.Parse(r.Context(), mode, req.Text)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
