package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/notium/internal"
)

func TestLoginCommand(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "login", "--username", "ada", "--password", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, f.storedToken(t))

	// the stored token is used by later invocations
	out, err := f.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "login", "-u", "ada", "-p", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", internal.ErrorMessage(err))
	assert.Empty(t, f.storedToken(t))
}

func TestLoginCommand_SignedInMaySignInAgain(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "login", "-u", "ada", "-p", "pw")
	require.NoError(t, err)
	assert.Equal(t, 1, f.api.CountRequests("POST", "/auth/login"))
	assert.NotEmpty(t, f.storedToken(t))
}

func TestLoginCommand_RequiresFlagsWithoutTerminal(t *testing.T) {
	t.Setenv("CI", "true")
	f := newCLIFixture(t)

	_, err := f.run(t, "login", "--username", "ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--username and --password are required")
	assert.Zero(t, f.api.CountRequests("POST", "/auth/login"))
}

func TestSignUpCommand(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "sign-up", "-u", "grace", "-e", "grace@example.com", "-p", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, f.storedToken(t))

	out, err := f.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No notes yet")
}

func TestSignUpCommand_DuplicateUsername(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "register", "-u", "ada", "-e", "other@example.com", "-p", "pw")
	require.Error(t, err)
	assert.Equal(t, "Username already exists", internal.ErrorMessage(err))
	assert.Empty(t, f.storedToken(t))
}

func TestLogoutCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "logout")
	require.NoError(t, err)
	assert.Empty(t, f.storedToken(t))

	_, err = f.run(t, "list")
	assert.ErrorIs(t, err, errNotSignedIn)

	// logging out twice is harmless
	_, err = f.run(t, "logout")
	assert.NoError(t, err)
}

func TestEphemeralFlag(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "--ephemeral", "login", "-u", "ada", "-p", "pw")
	require.NoError(t, err)
	assert.Empty(t, f.storedToken(t))
}
