package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("creating patient: %w", NotFound("patient"))

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrForbidden))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrDuplicateEmail, CodeOf(DuplicateEmail()))
	assert.Equal(t, ErrorCode(0), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(0), CodeOf(nil))
}

func TestPersistenceHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Persistence(cause)

	assert.NotContains(t, err.Message, "pq:")
	assert.ErrorIs(t, err, cause)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Persistence(cause)

	assert.Equal(t, cause, errors.Unwrap(err))
}
