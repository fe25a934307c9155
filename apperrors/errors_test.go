package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFound("Ad not found"), http.StatusNotFound},
		{Forbidden("nope"), http.StatusForbidden},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Invalid("bad"), http.StatusBadRequest},
		{Conflict("taken"), http.StatusConflict},
		{TooLarge("big"), http.StatusRequestEntityTooLarge},
		{Unsupported("gif?"), http.StatusUnsupportedMediaType},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("loading ad: %w", NotFound("Ad not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	err := Internal("Failed to save ad", errors.New("pq: connection refused"))

	assert.Equal(t, "Internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "Comment not found", PublicMessage(NotFound("Comment not found")))
}
