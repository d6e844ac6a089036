// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/roastcurve/internal/domain/inspect"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/session"
	"github.com/okian/roastcurve/internal/domain/types"
)

// Request body limits.
const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 8 << 20
)

// PipelineDependencies runs the stateless parse/derive pipeline.
type PipelineDependencies interface {
	Derive(ctx context.Context, mode model.InputMode, rows []model.RawRow) (types.DeriveResult, error)
	Parse(ctx context.Context, mode model.InputMode, text string) (types.ParseResult, error)
}

// SessionDependencies manages sessions and their profiles.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (types.SessionView, error)
	GetSession(ctx context.Context, id string) (types.SessionView, error)
	DeleteSession(ctx context.Context, id string) error
	UpdateSettings(ctx context.Context, id string, st session.Settings) (types.SessionView, error)

	AddProfile(ctx context.Context, id, name string) (types.ProfileView, error)
	RenameProfile(ctx context.Context, id, oldName, newName string) (types.SessionView, error)
	DeleteProfile(ctx context.Context, id, name string) (types.SessionView, error)
	SetRows(ctx context.Context, id, name string, rows []model.RawRow) (types.ProfileView, error)
	PasteRows(ctx context.Context, id, name, text string) (types.ParseResult, error)

	Table(ctx context.Context, id, name string, includeDerived bool) (types.TableView, error)
	Synchronize(ctx context.Context, id string) (types.SyncResult, error)
	Inspect(ctx context.Context, id string, t float64, names []string, strategy *inspect.Strategy) (types.InspectResult, error)
}

// ArtifactDependencies renders and converts session content.
type ArtifactDependencies interface {
	Chart(ctx context.Context, id string, w io.Writer, names []string, showROR *bool) error
	ExportXLSX(ctx context.Context, id string, w io.Writer) error
	ImportXLSX(ctx context.Context, id string, r io.Reader) (types.SyncResult, error)
	ExportTOML(ctx context.Context, id string, w io.Writer) error
	ImportTOML(ctx context.Context, id string, r io.Reader) (types.SyncResult, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PipelineDependencies
	SessionDependencies
	ArtifactDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	pipelineHandler *PipelineHandler
	sessionHandler  *SessionHandler
	artifactHandler *ArtifactHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		pipelineHandler: NewPipelineHandler(deps),
		sessionHandler:  NewSessionHandler(deps),
		artifactHandler: NewArtifactHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("POST /derive", "derive", s.pipelineHandler.HandleDerive)
	route("POST /parse", "parse", s.pipelineHandler.HandleParse)

	sh := s.sessionHandler
	route("POST /sessions", "sessions", sh.HandleCreate)
	route("GET /sessions/{id}", "session", sh.HandleGet)
	route("DELETE /sessions/{id}", "session", sh.HandleDelete)
	route("PUT /sessions/{id}/settings", "settings", sh.HandleSettings)
	route("POST /sessions/{id}/profiles", "profiles", sh.HandleAddProfile)
	route("PATCH /sessions/{id}/profiles/{name}", "profile", sh.HandleRenameProfile)
	route("DELETE /sessions/{id}/profiles/{name}", "profile", sh.HandleDeleteProfile)
	route("PUT /sessions/{id}/profiles/{name}/rows", "rows", sh.HandleSetRows)
	route("POST /sessions/{id}/profiles/{name}/paste", "paste", sh.HandlePaste)
	route("GET /sessions/{id}/profiles/{name}/table", "table", sh.HandleTable)
	route("POST /sessions/{id}/sync", "sync", sh.HandleSync)
	route("GET /sessions/{id}/inspect", "inspect", sh.HandleInspect)

	ah := s.artifactHandler
	route("GET /sessions/{id}/chart.png", "chart", ah.HandleChart)
	route("GET /sessions/{id}/export.xlsx", "export_xlsx", ah.HandleExportXLSX)
	route("POST /sessions/{id}/import.xlsx", "import_xlsx", ah.HandleImportXLSX)
	route("GET /sessions/{id}/export.toml", "export_toml", ah.HandleExportTOML)
	route("POST /sessions/{id}/import.toml", "import_toml", ah.HandleImportTOML)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a size-limited JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// readText reads a size-limited plain body.
func readText(w http.ResponseWriter, r *http.Request, op string, limit int64) (string, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(data), nil
}
