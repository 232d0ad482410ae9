package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := NewValidationError("name is required")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsValidationError(fmt.Errorf("create: %w", err)))
	assert.True(t, IsNotFound(NewDomainError(CodeNotFound, "Customer 7 not found")))
}

func TestDomainError_Error(t *testing.T) {
	assert.Equal(t, "name is required", NewValidationError("name is required").Error())
	assert.Equal(t, "boom", (&DomainError{Code: CodeValidation, Err: errors.New("boom")}).Error())
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("storage failures become validation errors", func(t *testing.T) {
		cause := errors.New("value too long for type character varying(63)")
		err := WrapValidationError(cause)

		assert.True(t, IsValidationError(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, SaveFailedMessage, err.Error())
		assert.NotContains(t, err.Error(), "character varying")
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		notFound := NewDomainError(CodeNotFound, "Customer 1 not found")
		err := WrapValidationError(notFound)

		assert.Same(t, notFound, err)
		assert.False(t, IsValidationError(err))
	})
}
