package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfUnwrapsChain(t *testing.T) {
	base := Conflict("donation has already been processed", nil)
	wrapped := fmt.Errorf("accept donation: %w", base)

	assert.Equal(t, ErrConflict, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, ErrConflict))
	assert.False(t, IsCode(wrapped, ErrNotFound))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrInternal, CodeOf(fmt.Errorf("boom")))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := NotFound("donation", fmt.Errorf("sql: no rows"))
	assert.Contains(t, err.Error(), "donation not found")
	assert.Contains(t, err.Error(), "no rows")
}
