package services

import (
	"errors"
	"fmt"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

// CanModify reports whether caller may mutate or delete a resource owned by
// author.
func CanModify(caller models.Caller, author models.User) bool {
	return caller.IsAdmin() || caller.Username == author.Username
}

// Recorder receives domain events for metrics. A nil *metrics.Metrics
// satisfies it.
type Recorder interface {
	Mutation(entity, op string)
	Forbidden(entity string)
	ImageStored(size int)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string, string) {}
func (nopRecorder) Forbidden(string)        {}
func (nopRecorder) ImageStored(int)         {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

func authorize(rec Recorder, caller models.Caller, author models.User, entity string) error {
	if CanModify(caller, author) {
		return nil
	}
	rec.Forbidden(entity)
	return apperrors.Forbidden(fmt.Sprintf("Only the author or an admin can modify this %s", entity))
}

// storeErr translates a store error: not-found becomes notFoundMsg, anything
// else is internal.
func storeErr(err error, notFoundMsg, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(notFoundMsg)
	}
	return apperrors.Internal(op, err)
}
