package ratinghandlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
	ratingdomain "github.com/smk-league/smk-rating/app/modules/rating/domain"
	"github.com/smk-league/smk-rating/app/shared/apperrors"
	"github.com/smk-league/smk-rating/app/shared/httpjson"
)

// GetClassement lists players by conservative score, optionally for one tier.
func (h *RatingHandlers) GetClassement(w http.ResponseWriter, r *http.Request) {
	var tier *ratingdomain.Tier
	if raw := r.URL.Query().Get("tier"); raw != "" {
		t := ratingdomain.Tier(strings.ToUpper(raw))
		tier = &t
	}

	entries, err := h.service.ListClassement(r.Context(), tier)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, entries)
}

// GetPlayerNames lists every player name.
func (h *RatingHandlers) GetPlayerNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListPlayerNames(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, names)
}

// GetPlayerStats returns one player's profile and history.
func (h *RatingHandlers) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetPlayerStats(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, stats)
}

// GetPlayerChart renders the player's conservative score history as PNG.
func (h *RatingHandlers) GetPlayerChart(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetPlayerStats(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}

	png, err := ratingservice.RenderPlayerHistoryChart(stats.Name, stats.History)
	if err != nil {
		httpjson.Error(w, r, h.logger, fmt.Errorf("render chart: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

// GetProgressions lists the best progressions since the initial mean. The
// optional limit query parameter caps the list.
func (h *RatingHandlers) GetProgressions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			httpjson.Error(w, r, h.logger, fmt.Errorf("%w: limit must be between 1 and 100", apperrors.ErrValidation))
			return
		}
		limit = n
	}

	entries, err := h.service.ListProgressions(r.Context(), limit)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, entries)
}

// GetTierDistribution returns the player count per tier.
func (h *RatingHandlers) GetTierDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.service.GetTierDistribution(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, dist)
}

// GetTournaments lists tournaments, newest first.
func (h *RatingHandlers) GetTournaments(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListTournaments(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// GetLatestTournament returns the last processed tournament.
func (h *RatingHandlers) GetLatestTournament(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.GetLatestTournament(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, details)
}

// GetTournament returns one tournament with its results.
func (h *RatingHandlers) GetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	details, err := h.service.GetTournamentDetails(r.Context(), id)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, details)
}

func tournamentID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid tournament id", apperrors.ErrValidation)
	}
	return id, nil
}
