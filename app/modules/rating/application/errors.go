package ratingservice

import (
	"errors"

	"github.com/smk-league/smk-rating/app/shared/apperrors"
)

var (
	ErrValidation     = apperrors.ErrValidation
	ErrConsistency    = apperrors.ErrConsistency
	ErrTooOldToRevert = apperrors.ErrTooOldToRevert
	ErrNotFound       = apperrors.ErrNotFound
	ErrConflict       = apperrors.ErrConflict
)

// errRollback aborts a transaction whose operation returned a domain failure.
var errRollback = errors.New("rollback")
