package service

import (
	"context"
	"errors"

	"github.com/listenupapp/pagetrail/internal/catalog"
	domainerrors "github.com/listenupapp/pagetrail/internal/errors"
	"github.com/listenupapp/pagetrail/internal/reading"
)

// ruleError converts a reading rule violation into a coded error.
func ruleError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, reading.ErrNoEntry), errors.Is(err, reading.ErrReReadNotFound):
		return domainerrors.Wrap(err, domainerrors.CodeNotFound, "not found")
	case errors.Is(err, reading.ErrDuplicateReRead):
		return domainerrors.Wrap(err, domainerrors.CodeConflict, "re-read entry already exists")
	case errors.Is(err, reading.ErrInvalidStatus),
		errors.Is(err, reading.ErrReReadViaEntries),
		errors.Is(err, reading.ErrInvalidRating),
		errors.Is(err, reading.ErrInvalidMinutes),
		errors.Is(err, reading.ErrReReadCompletionRequired),
		errors.Is(err, reading.ErrReReadIDRequired):
		return domainerrors.Validation(err.Error()).WithCause(err)
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "apply reading rule")
	}
}

// catalogError converts a catalog failure into a coded error.
func catalogError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrEmptyQuery):
		return domainerrors.Validation("query is required").WithCause(err)
	case errors.Is(err, catalog.ErrSuperseded):
		return domainerrors.Conflict("superseded by a newer search").WithCause(err)
	case errors.Is(err, catalog.ErrRateLimited):
		return domainerrors.Unavailable("catalog rate limit reached, try again shortly").WithCause(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainerrors.Unavailable("catalog search did not complete").WithCause(err)
	default:
		return domainerrors.Unavailable("catalog search failed").WithCause(err)
	}
}
