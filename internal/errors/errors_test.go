package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	assert.True(t, Is(ErrNoSuchBranch, ErrUnknownBranch))
	assert.False(t, Is(ErrNoSuchBranch, ErrAlreadyExists))

	wrapped := fmt.Errorf("checking out: %w", ErrNoSuchBranch)
	assert.True(t, Is(wrapped, ErrUnknownBranch))
	assert.True(t, IsUser(wrapped))
	assert.Equal(t, "No such branch exists.", Message(wrapped))
}

func TestIntegrityError(t *testing.T) {
	cause := New("disk said no")
	err := fmt.Errorf("loading commit: %w", Integrity(CodeMissing, "object missing", cause))

	assert.True(t, IsIntegrity(err))
	assert.False(t, IsUser(err))
	assert.True(t, Is(err, cause))
	assert.Contains(t, Message(err), "object missing: disk said no")
}

func TestPlainErrorMessage(t *testing.T) {
	err := New("boom")
	assert.False(t, IsUser(err))
	assert.False(t, IsIntegrity(err))
	assert.Equal(t, "boom", Message(err))
}
