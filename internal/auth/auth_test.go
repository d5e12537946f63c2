package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(filepath.Join(t.TempDir(), "users.json"))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	reg := newRegistry(t)

	require.NoError(t, reg.Register("alice", "secret"))
	require.NoError(t, reg.Authenticate("alice", "secret"))

	assert.ErrorIs(t, reg.Authenticate("alice", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, reg.Authenticate("nobody", "secret"), ErrInvalidCredentials)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	reg := newRegistry(t)

	require.NoError(t, reg.Register("alice", "secret"))
	assert.ErrorIs(t, reg.Register("alice", "another"), ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	reg := newRegistry(t)

	assert.Error(t, reg.Register("ab", "secret"), "short username")
	assert.Error(t, reg.Register("alice", "abc"), "short password")
}

func TestExists(t *testing.T) {
	reg := newRegistry(t)

	ok, err := reg.Exists("alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, reg.Register("alice", "secret"))

	ok, err = reg.Exists("alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegistry_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	first := NewRegistry(path)
	require.NoError(t, first.Register("alice", "secret"))

	second := NewRegistry(path)
	require.NoError(t, second.Authenticate("alice", "secret"))
}
