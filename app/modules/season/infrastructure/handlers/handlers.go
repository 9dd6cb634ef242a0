package seasonhandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/smk-league/smk-rating/app/modules/rating/application/parsers"
	seasonservice "github.com/smk-league/smk-rating/app/modules/season/application"
	seasondomain "github.com/smk-league/smk-rating/app/modules/season/domain"
	"github.com/smk-league/smk-rating/app/shared/apperrors"
	"github.com/smk-league/smk-rating/app/shared/httpjson"
)

// SeasonHandlers serves the season HTTP API.
type SeasonHandlers struct {
	service seasonservice.Service
	clock   seasonservice.Clock
	logger  *slog.Logger
}

// NewSeasonHandlers creates a new SeasonHandlers instance.
func NewSeasonHandlers(service seasonservice.Service, clock seasonservice.Clock, logger *slog.Logger) *SeasonHandlers {
	return &SeasonHandlers{service: service, clock: clock, logger: logger}
}

// CreateSeasonInput is the body of POST /api/seasons. Dates accept ISO,
// day-first and natural-language forms.
type CreateSeasonInput struct {
	Name             string   `json:"name"`
	DateDebut        string   `json:"date_debut"`
	DateFin          string   `json:"date_fin"`
	VictoryCondition string   `json:"victory_condition"`
	ActiveAwards     []string `json:"active_awards"`
	IsYearly         bool     `json:"is_yearly"`
	LeagueID         *int64   `json:"league_id"`
	IsLeagueRecap    bool     `json:"is_league_recap"`
}

func (h *SeasonHandlers) parseDate(field, raw string) (time.Time, error) {
	d, err := parsers.ParseDate(raw, h.clock.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", apperrors.ErrValidation, field, err)
	}
	return d, nil
}

// ListSeasons lists every season.
func (h *SeasonHandlers) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.service.ListSeasons(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, seasons)
}

// GetSeason returns one season.
func (h *SeasonHandlers) GetSeason(w http.ResponseWriter, r *http.Request) {
	season, err := h.service.GetSeason(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, season)
}

// GetSeasonStats returns the live statistics of a season.
func (h *SeasonHandlers) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetSeasonStats(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, stats)
}

// GetSeasonAwards returns the published awards of a season.
func (h *SeasonHandlers) GetSeasonAwards(w http.ResponseWriter, r *http.Request) {
	awards, err := h.service.GetSeasonAwards(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, awards)
}

// GetWindowStats aggregates an arbitrary window:
// ?start=&end=&scope=all|league|no_league&league_id=
func (h *SeasonHandlers) GetWindowStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := h.parseDate("start", q.Get("start"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	end, err := h.parseDate("end", q.Get("end"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	scope, err := parseScope(q.Get("scope"), q.Get("league_id"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}

	stats, err := h.service.ComputeSeasonStats(r.Context(), seasondomain.DateRange{Start: start, End: end}, scope)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, stats)
}

func parseScope(kind, leagueID string) (seasondomain.Scope, error) {
	switch seasondomain.ScopeKind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", seasondomain.ScopeAll:
		return seasondomain.AllLeagues(), nil
	case seasondomain.ScopeNoLeague:
		return seasondomain.NoLeague(), nil
	case seasondomain.ScopeLeague:
		id, err := strconv.ParseInt(leagueID, 10, 64)
		if err != nil || id <= 0 {
			return seasondomain.Scope{}, fmt.Errorf("%w: invalid league_id %q", apperrors.ErrValidation, leagueID)
		}
		return seasondomain.League(id), nil
	default:
		return seasondomain.Scope{}, fmt.Errorf("%w: unknown scope %q", apperrors.ErrValidation, kind)
	}
}

// CreateSeason stores a new season.
func (h *SeasonHandlers) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var in CreateSeasonInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	start, err := h.parseDate("date_debut", in.DateDebut)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	end, err := h.parseDate("date_fin", in.DateFin)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}

	season, err := h.service.CreateSeason(r.Context(), seasonservice.CreateSeasonRequest{
		Name:             in.Name,
		DateDebut:        start,
		DateFin:          end,
		VictoryCondition: in.VictoryCondition,
		ActiveAwards:     in.ActiveAwards,
		IsYearly:         in.IsYearly,
		LeagueID:         in.LeagueID,
		IsLeagueRecap:    in.IsLeagueRecap,
	})
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, season)
}

// PublishSeason persists a season's awards and league movements.
func (h *SeasonHandlers) PublishSeason(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.PublishSeason(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, out)
}
