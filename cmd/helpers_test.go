package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/notium/internal"
	"github.com/iksnae/notium/testutil"
)

// resetFlags restores every flag to its default so consecutive Execute calls start clean
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), err
}

type cliFixture struct {
	api     *testutil.FakeAPI
	dir     string
	storage string
	config  string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	t.Setenv(internal.EnvAPIURL, "")

	api := testutil.NewFakeAPI(t)
	api.AddUser("ada", "ada@example.com", "pw")
	api.Seed("ada", testutil.DefaultSeedNotes())

	dir := t.TempDir()
	return &cliFixture{
		api:     api,
		dir:     dir,
		storage: filepath.Join(dir, "notium.db"),
		config:  filepath.Join(dir, "config.yaml"),
	}
}

// run executes the CLI against the fake API with an isolated config and credential store
func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	base := []string{"--config", f.config, "--api-url", f.api.BaseURL(), "--storage", f.storage}
	return execute(t, append(base, args...)...)
}

func (f *cliFixture) signIn(t *testing.T) {
	t.Helper()
	testutil.CreateSQLiteFixture(t, f.storage, f.api.IssueToken(t, "ada"))
}

func (f *cliFixture) storedToken(t *testing.T) string {
	t.Helper()
	store, err := internal.OpenStorage(f.storage)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	token, err := store.Token()
	require.NoError(t, err)
	return token
}
