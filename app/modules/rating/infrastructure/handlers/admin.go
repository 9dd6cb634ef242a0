package ratinghandlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
	"github.com/smk-league/smk-rating/app/modules/rating/application/parsers"
	"github.com/smk-league/smk-rating/app/shared/apperrors"
	"github.com/smk-league/smk-rating/app/shared/httpjson"
)

// SubmitTournamentInput is the JSON body of a tournament submission.
type SubmitTournamentInput struct {
	Date     string                    `json:"date"`
	LeagueID *int64                    `json:"league_id,omitempty"`
	Scores   []ratingservice.ScoreLine `json:"scores"`
}

// AddPlayerInput is the JSON body of a player creation.
type AddPlayerInput struct {
	Name     string `json:"name"`
	LeagueID *int64 `json:"league_id,omitempty"`
}

// GlobalResetInput is the JSON body of a global reset.
type GlobalResetInput struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// ConfigurationInput is the JSON body of a configuration change.
type ConfigurationInput struct {
	Value string `json:"value"`
}

// SubmitTournament accepts either a JSON body or a multipart upload with a
// "file" part (CSV or XLSX) plus optional "date" and "league_id" fields.
func (h *RatingHandlers) SubmitTournament(w http.ResponseWriter, r *http.Request) {
	req, err := h.readSubmission(r)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}

	res, err := h.service.SubmitTournament(r.Context(), req)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, res)
}

func (h *RatingHandlers) readSubmission(r *http.Request) (ratingservice.SubmitTournamentRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var in SubmitTournamentInput
		if err := httpjson.Decode(r, &in); err != nil {
			return ratingservice.SubmitTournamentRequest{}, err
		}
		date, err := h.parseDate(in.Date)
		if err != nil {
			return ratingservice.SubmitTournamentRequest{}, err
		}
		return ratingservice.SubmitTournamentRequest{Date: date, LeagueID: in.LeagueID, Scores: in.Scores}, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return ratingservice.SubmitTournamentRequest{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return ratingservice.SubmitTournamentRequest{}, fmt.Errorf("%w: missing file part", apperrors.ErrValidation)
	}
	defer file.Close()

	parser, err := h.parsers.GetParser(header.Filename)
	if err != nil {
		return ratingservice.SubmitTournamentRequest{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return ratingservice.SubmitTournamentRequest{}, fmt.Errorf("read upload: %w", err)
	}
	scores, err := parser.Parse(data)
	if err != nil {
		return ratingservice.SubmitTournamentRequest{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	date, err := h.parseDate(r.FormValue("date"))
	if err != nil {
		return ratingservice.SubmitTournamentRequest{}, err
	}
	var leagueID *int64
	if raw := r.FormValue("league_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ratingservice.SubmitTournamentRequest{}, fmt.Errorf("%w: invalid league_id %q", apperrors.ErrValidation, raw)
		}
		leagueID = &id
	}
	return ratingservice.SubmitTournamentRequest{Date: date, LeagueID: leagueID, Scores: scores}, nil
}

func (h *RatingHandlers) parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return h.now(), nil
	}
	date, err := parsers.ParseDate(raw, h.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return date, nil
}

// RevertLastTournament undoes the most recent tournament.
func (h *RatingHandlers) RevertLastTournament(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RevertLastTournament(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}

// DeleteTournament removes any tournament.
func (h *RatingHandlers) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	id, err := tournamentID(r)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	res, err := h.service.DeleteTournament(r.Context(), id)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}

// AddPlayer registers a player with the initial belief.
func (h *RatingHandlers) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var in AddPlayerInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	player, err := h.service.AddPlayer(r.Context(), in.Name, in.LeagueID)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, player)
}

// ApplyGlobalReset widens every player's sigma.
func (h *RatingHandlers) ApplyGlobalReset(w http.ResponseWriter, r *http.Request) {
	var in GlobalResetInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	date, err := h.parseDate(in.Date)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	res, err := h.service.ApplyGlobalReset(r.Context(), in.Value, date)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, res)
}

// RevertGlobalReset undoes the latest active reset.
func (h *RatingHandlers) RevertGlobalReset(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RevertGlobalReset(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}

// GetConfiguration returns the engine tunables.
func (h *RatingHandlers) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.GetConfiguration(r.Context())
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, cfg.Entries())
}

// SetConfiguration changes one tunable.
func (h *RatingHandlers) SetConfiguration(w http.ResponseWriter, r *http.Request) {
	var in ConfigurationInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	cfg, err := h.service.SetConfiguration(r.Context(), chi.URLParam(r, "key"), in.Value)
	if err != nil {
		httpjson.Error(w, r, h.logger, err)
		return
	}
	httpjson.Write(w, http.StatusOK, cfg.Entries())
}
