package ratinghandlers

import (
	"log/slog"
	"time"

	ratingservice "github.com/smk-league/smk-rating/app/modules/rating/application"
	"github.com/smk-league/smk-rating/app/modules/rating/application/parsers"
)

// maxUploadSize bounds multipart result uploads.
const maxUploadSize = 8 << 20

// RatingHandlers serves the rating HTTP API.
type RatingHandlers struct {
	service ratingservice.Service
	parsers *parsers.Factory
	clock   ratingservice.Clock
	logger  *slog.Logger
}

// NewRatingHandlers creates a new RatingHandlers instance.
func NewRatingHandlers(service ratingservice.Service, clock ratingservice.Clock, logger *slog.Logger) *RatingHandlers {
	return &RatingHandlers{
		service: service,
		parsers: parsers.NewFactory(),
		clock:   clock,
		logger:  logger,
	}
}

func (h *RatingHandlers) now() time.Time {
	return h.clock.Now()
}
