package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/roastcurve/internal/adapters/chart"
	"github.com/okian/roastcurve/internal/adapters/library"
	"github.com/okian/roastcurve/internal/adapters/repository"
	"github.com/okian/roastcurve/internal/adapters/spreadsheet"
	service "github.com/okian/roastcurve/internal/app"
	"github.com/okian/roastcurve/internal/domain/inspect"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/profileset"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBodyTooLarge = errors.New("request body too large")
)

// WrapKind tags err with an operation and a sentinel kind so errors.Is
// matches both kind and cause.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind reports a sentinel kind for an operation without a cause.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// statusRule maps a sentinel to its HTTP status and error code.
type statusRule struct {
	target error
	status int
	code   string
}

var statusRules = []statusRule{
	{repository.ErrNotFound, http.StatusNotFound, "session_not_found"},
	{profileset.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{profileset.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
	{profileset.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{profileset.ErrTooManyPoints, http.StatusRequestEntityTooLarge, "too_many_points"},
	{ErrBodyTooLarge, http.StatusRequestEntityTooLarge, "body_too_large"},
	{profileset.ErrEmptyName, http.StatusBadRequest, "empty_name"},
	{model.ErrInvalidMode, http.StatusBadRequest, "invalid_mode"},
	{inspect.ErrUnknownStrategy, http.StatusBadRequest, "invalid_strategy"},
	{library.ErrDecode, http.StatusBadRequest, "invalid_library"},
	{library.ErrUnknownKeys, http.StatusBadRequest, "invalid_library"},
	{library.ErrUnsupportedVersion, http.StatusBadRequest, "invalid_library"},
	{spreadsheet.ErrOpenWorkbook, http.StatusBadRequest, "invalid_workbook"},
	{spreadsheet.ErrMissingSheet, http.StatusBadRequest, "invalid_workbook"},
	{spreadsheet.ErrMalformedBlock, http.StatusBadRequest, "invalid_workbook"},
	{chart.ErrNothingToPlot, http.StatusUnprocessableEntity, "nothing_to_plot"},
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
}

// classify returns the status and code for err, 500 when nothing matches.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "body_too_large"
	}
	for _, r := range statusRules {
		if errors.Is(err, r.target) {
			return r.status, r.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// fail writes err with its classified status.
func fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, code, errors.New(http.StatusText(status)))
		return
	}
	writeError(w, status, code, err)
}
