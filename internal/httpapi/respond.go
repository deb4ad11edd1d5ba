package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/engine"
	"github.com/DoyleJ11/portfolio-backend/internal/hub"
	"github.com/DoyleJ11/portfolio-backend/internal/layout"
	"github.com/DoyleJ11/portfolio-backend/internal/projects"
	"github.com/DoyleJ11/portfolio-backend/internal/section"
	"github.com/DoyleJ11/portfolio-backend/internal/types"
)

var errBadJSON = errors.New("bad json")
var errBadQuery = errors.New("bad query")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) types.ErrorResponse { return types.ErrorResponse{Error: msg} }

// statusFor maps package sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, hub.ErrNotFound),
		errors.Is(err, catalog.ErrUnknownCatalog),
		errors.Is(err, projects.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadJSON),
		errors.Is(err, errBadQuery),
		errors.Is(err, contact.ErrInvalidForm),
		errors.Is(err, layout.ErrInvalidWidth),
		errors.Is(err, layout.ErrUnknownStrategy),
		errors.Is(err, layout.ErrTooManyItems),
		errors.Is(err, engine.ErrInvalidRules):
		return http.StatusBadRequest
	case errors.Is(err, hub.ErrClosed), errors.Is(err, section.ErrClosed):
		return http.StatusGone
	case errors.Is(err, hub.ErrFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := types.ErrorResponse{Error: err.Error()}

	var fields contact.FieldErrors
	if errors.As(err, &fields) {
		body = types.ErrorResponse{Error: contact.ErrInvalidForm.Error(), Fields: fields}
	}
	if status >= http.StatusInternalServerError {
		a.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		body.Error = http.StatusText(status)
	}
	writeJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}
