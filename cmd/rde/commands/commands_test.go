package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/rde/internal/config"
	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/version"
)

// setupProject creates a starter kit project with a minimal docs tree in a
// fresh working directory.
func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	base := map[string]string{
		"package.json":   `{"name": "demo-rds"}`,
		"_docs/index.md": "# Welcome\n",
		"_docs/faq.md":   "# FAQ\n",
	}
	for k, v := range files {
		base[k] = v
	}
	for rel, content := range base {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if content == "" {
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func newCLI(logs *bytes.Buffer) *CLI {
	return &CLI{Config: "rde.config.yaml", Project: "rde.yaml", logOut: logs}
}

func TestDocsBuild_WritesSiteAndMetrics(t *testing.T) {
	dir := setupProject(t, nil)
	var logs bytes.Buffer

	cmd := &DocsBuildCmd{MetricsFile: "build.prom"}
	require.NoError(t, cmd.run(t.Context(), &Global{}, newCLI(&logs)))

	index, err := os.ReadFile(filepath.Join(dir, "_docs_pages", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<h1 class="rde-h1">Welcome</h1>`)
	assert.FileExists(t, filepath.Join(dir, "_docs_pages", "faq.html"))
	assert.NoDirExists(t, filepath.Join(dir, "_docs_pages_stage"))

	prom, err := os.ReadFile(filepath.Join(dir, "build.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `rde_docs_build_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, string(prom), "rde_docs_pages_rendered_total 2")

	assert.Contains(t, logs.String(), "Docs site generated")
}

func TestDocsBuild_FlagsOverrideConfig(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"rde.config.yaml": "docs:\n  dir: missing\n  output: never\n",
		"manual/index.md": "# Manual\n",
		"manual/faq.md":   "# Manual FAQ\n",
	})

	cmd := &DocsBuildCmd{SiteFlags: SiteFlags{DocsDir: "manual", Output: "site"}}
	require.NoError(t, cmd.run(t.Context(), &Global{}, newCLI(&bytes.Buffer{})))

	assert.FileExists(t, filepath.Join(dir, "site", "index.html"))
	assert.NoDirExists(t, filepath.Join(dir, "never"))
}

func TestDocsBuild_ExitCodes(t *testing.T) {
	adapter := foundationerrors.NewCLIErrorAdapter(false, slog.New(slog.DiscardHandler))

	t.Run("missing faq is a configuration error", func(t *testing.T) {
		dir := setupProject(t, map[string]string{"_docs/faq.md": ""})
		err := (&DocsBuildCmd{}).run(t.Context(), &Global{}, newCLI(&bytes.Buffer{}))
		require.Error(t, err)
		assert.Equal(t, foundationerrors.ExitConfig, adapter.ExitCodeFor(err))
		assert.NoDirExists(t, filepath.Join(dir, "_docs_pages"))
	})

	t.Run("unknown project kind is a configuration error", func(t *testing.T) {
		setupProject(t, map[string]string{"package.json": `{"name": "demo"}`})
		err := (&DocsBuildCmd{}).run(t.Context(), &Global{}, newCLI(&bytes.Buffer{}))
		require.Error(t, err)
		assert.Equal(t, foundationerrors.ExitConfig, adapter.ExitCodeFor(err))
	})

	t.Run("cancelled build reports interruption", func(t *testing.T) {
		dir := setupProject(t, nil)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err := (&DocsBuildCmd{}).run(ctx, &Global{}, newCLI(&bytes.Buffer{}))
		require.Error(t, err)
		assert.Equal(t, foundationerrors.ExitInterrupted, adapter.ExitCodeFor(err))
		assert.NoDirExists(t, filepath.Join(dir, "_docs_pages"))
	})
}

func TestConfigureLogging(t *testing.T) {
	var logs bytes.Buffer
	cli := &CLI{LogFormat: "json", logOut: &logs}
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.DiscardHandler)) })

	logger := cli.configureLogging(configLogging("info", "text"))
	logger.Debug("hidden")
	logger.Info("shown", slog.String("k", "v"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "v", entry["k"])

	logs.Reset()
	cli = &CLI{Verbose: true, logOut: &logs}
	cli.configureLogging(configLogging("error", "text")).Debug("debug line")
	assert.Contains(t, logs.String(), "level=DEBUG")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&VersionCmd{}).Run(&Global{Stdout: &out}))
	assert.Equal(t, version.String()+"\n", out.String())
}

func configLogging(level, format string) config.LoggingConfig {
	return config.LoggingConfig{
		Level:  config.NormalizeLogLevel(level),
		Format: config.NormalizeLogFormat(format),
	}
}
