package service

import (
	"errors"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/repository"
)

// translate maps storage errors to domain errors. *apperror.Error values pass through.
func translate(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(resource, id)
	case errors.Is(err, repository.ErrLockTimeout):
		return apperror.Wrap(err, apperror.KindTimeout, "Timed out waiting for "+resource+" lock").With("id", id)
	case errors.Is(err, repository.ErrConflict):
		return apperror.Wrap(err, apperror.KindConflict, resource+" conflicts with an existing record").With("id", id)
	default:
		return apperror.Wrap(err, apperror.KindInternal, "Internal storage error")
	}
}
