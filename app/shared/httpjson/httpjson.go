// Package httpjson writes API responses.
package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/smk-league/smk-rating/app/observability/attr"
	"github.com/smk-league/smk-rating/app/shared/apperrors"
)

// ErrorBody is the payload of every non-2xx answer.
type ErrorBody struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err to its status. Server errors are logged and their message
// is not exposed.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	correlation := attr.ExtractCorrelationID(r.Context())
	body := ErrorBody{Error: err.Error()}
	if correlation.Key != "" {
		body.CorrelationID = correlation.Value.String()
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			attr.Error(err),
			correlation,
			attr.String("method", r.Method),
			attr.String("path", r.URL.Path),
		)
		body.Error = http.StatusText(status)
	}
	Write(w, status, body)
}

// Decode reads a JSON body, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(apperrors.ErrValidation, err)
	}
	return nil
}
