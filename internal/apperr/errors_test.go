package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsUnwrap(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("Party not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Party not found", Message(err))
}

func TestMessageOfPlainError(t *testing.T) {
	assert.Equal(t, "", Message(errors.New("db down")))
	assert.Equal(t, "Unauthorized", Forbidden("Unauthorized").Error())
}
