package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smk-league/smk-rating/app/shared/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "validation", err: fmt.Errorf("%w: duplicate name", apperrors.ErrValidation), wantStatus: 400, wantBody: "validation error: duplicate name"},
		{name: "too old", err: apperrors.ErrTooOldToRevert, wantStatus: 422, wantBody: "tournament too old to revert"},
		{name: "internal hidden", err: errors.New("pq: connection refused"), wantStatus: 500, wantBody: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Error(rr, httptest.NewRequest(http.MethodGet, "/", nil), logger, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body ErrorBody
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Error)
		})
	}
}

func TestDecode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Alice"}`))
	require.NoError(t, Decode(req, &v))
	assert.Equal(t, "Alice", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nom":"Alice"}`))
	assert.ErrorIs(t, Decode(req, &v), apperrors.ErrValidation)
}
