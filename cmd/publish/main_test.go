package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"project", "all", "seed", "sync-markdown", "migrate"} {
		assert.True(t, names[want], want)
	}
}

func TestProjectRequiresID(t *testing.T) {
	_, err := execute(t, "project")
	assert.Error(t, err)
}

func TestMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SSM_PARAMETER_PATH", "")

	_, err := execute(t, "migrate", "--env-file", filepath.Join(t.TempDir(), "absent.env"))
	assert.True(t, errs.IsDatabaseDisabledError(err))
	assert.ErrorContains(t, err, "without DATABASE_URL")
}

func TestSeedAndPublishAgainstSQLite(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	public := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(content, "demo", "assets"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(public, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(content, "demo", "en.md"), []byte("# Demo"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(content, "demo", "assets", "shot.it.png"), []byte{1, 2}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(public, "images", "demo.png"), []byte{3}, 0o644))
	dataset := filepath.Join(dir, "projects.json")
	require.NoError(t, os.WriteFile(dataset, []byte(`[{"id":"demo","title":"Demo","shortDescription":"d","image":"/images/demo.png"}]`), 0o644))

	t.Setenv("DATABASE_URL", filepath.Join(dir, "portfolio.db"))
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SSM_PARAMETER_PATH", "")
	flags := []string{"--content", content, "--public", public, "--dataset", dataset, "--env-file", filepath.Join(dir, "none.env")}

	out, err := execute(t, append([]string{"seed"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1 project(s) seeded")

	out, err = execute(t, append([]string{"project", "demo"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "published demo (1 assets, created=false)")
}
