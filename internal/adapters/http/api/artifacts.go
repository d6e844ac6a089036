package api

import (
	"bytes"
	"net/http"
	"strconv"
)

// Artifact content types.
const (
	contentTypePNG  = "image/png"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeTOML = "application/toml; charset=utf-8"
)

// ArtifactHandler serves chart rendering and workbook/library transfer.
type ArtifactHandler struct {
	deps ArtifactDependencies
}

// NewArtifactHandler creates a new artifact handler.
func NewArtifactHandler(deps ArtifactDependencies) *ArtifactHandler {
	return &ArtifactHandler{deps: deps}
}

// HandleChart handles GET /sessions/{id}/chart.png requests.
func (h *ArtifactHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ror, err := queryBool(q, "ror")
	if err != nil {
		fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.Chart(r.Context(), r.PathValue("id"), &buf, queryNames(q, "profiles"), ror); err != nil {
		fail(w, err)
		return
	}
	writeBlob(w, contentTypePNG, "", buf.Bytes())
}

// HandleExportXLSX handles GET /sessions/{id}/export.xlsx requests.
func (h *ArtifactHandler) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.deps.ExportXLSX(r.Context(), r.PathValue("id"), &buf); err != nil {
		fail(w, err)
		return
	}
	writeBlob(w, contentTypeXLSX, "roast-profiles.xlsx", buf.Bytes())
}

// HandleImportXLSX handles POST /sessions/{id}/import.xlsx requests. The
// body is the raw workbook.
func (h *ArtifactHandler) HandleImportXLSX(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.ImportXLSX(r.Context(), r.PathValue("id"), http.MaxBytesReader(w, r.Body, maxUploadBody))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleExportTOML handles GET /sessions/{id}/export.toml requests.
func (h *ArtifactHandler) HandleExportTOML(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.deps.ExportTOML(r.Context(), r.PathValue("id"), &buf); err != nil {
		fail(w, err)
		return
	}
	writeBlob(w, contentTypeTOML, "roast-profiles.toml", buf.Bytes())
}

// HandleImportTOML handles POST /sessions/{id}/import.toml requests.
func (h *ArtifactHandler) HandleImportTOML(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.ImportTOML(r.Context(), r.PathValue("id"), http.MaxBytesReader(w, r.Body, maxUploadBody))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeBlob writes a fully rendered artifact.
func writeBlob(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
