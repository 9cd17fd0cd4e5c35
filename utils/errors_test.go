package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Is(t *testing.T) {
	err := fmt.Errorf("loading post: %w", NewNotFoundError("post"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "loading post: post not found", err.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	origin := errors.New("disk full")
	err := NewDatabaseError(origin)
	assert.ErrorIs(t, err, origin)
	assert.ErrorIs(t, err, ErrDatabase)
	assert.Equal(t, "database error: disk full", err.Error())
}

func TestAppErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("text is required"), http.StatusBadRequest},
		{"not found", NewNotFoundError("group"), http.StatusNotFound},
		{"conflict", NewConflictError("slug taken"), http.StatusConflict},
		{"unauthenticated", NewUnauthenticatedError(), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError(), http.StatusForbidden},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AppErrorToHTTPStatus(ErrorCode(tt.err)); got != tt.want {
				t.Errorf("AppErrorToHTTPStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
