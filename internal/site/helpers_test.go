package site

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/rde/internal/config"
	"git.home.luguber.info/inful/rde/internal/metrics"
)

var fixtureFiles = map[string]string{
	"index.md":            "---\ntitle: Home\n---\n# Welcome\n\nSee [a](/a.html).\n",
	"faq.md":              "# FAQ\n",
	"a.md":                "# A\n",
	"b/c.md":              "---\ntitle: C\ncategory: Cat\n---\nbody\n",
	"logo.png":            "\x89PNG\r\n\x1a\nbinary",
	"guide/logo.png":      "excluded",
	"guide/intro.md":      "# Intro\n",
	"guide/partials/x.md": "# nested\n",
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

// fixture returns a config pointing at a populated docs dir and a not yet
// existing output dir.
func fixture(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Docs.Dir = filepath.Join(root, "_docs")
	cfg.Docs.Output = filepath.Join(root, "_docs_pages")
	require.NoError(t, os.MkdirAll(cfg.Docs.Dir, 0o750))
	writeTree(t, cfg.Docs.Dir, files)
	return cfg
}

func starterProject() *config.Project {
	return &config.Project{Kind: config.KindStarterKit, Framework: config.FrameworkVue}
}

// snapshot maps every file under root to its content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	require.NoError(t, filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	}))
	return out
}

// cancelRecorder cancels a build after a number of files have been written.
type cancelRecorder struct {
	metrics.NoopRecorder
	after  int
	count  int
	cancel func()
}

func (r *cancelRecorder) tick() {
	r.count++
	if r.count == r.after {
		r.cancel()
	}
}

func (r *cancelRecorder) IncPagesRendered() { r.tick() }
func (r *cancelRecorder) IncFilesCopied()   { r.tick() }

// countingRecorder records counters for assertions.
type countingRecorder struct {
	metrics.NoopRecorder
	pages    int
	files    int
	outcomes []metrics.Outcome
	stages   map[string]time.Duration
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{stages: map[string]time.Duration{}}
}

func (r *countingRecorder) IncPagesRendered()                              { r.pages++ }
func (r *countingRecorder) IncFilesCopied()                                { r.files++ }
func (r *countingRecorder) IncBuildOutcome(o metrics.Outcome)              { r.outcomes = append(r.outcomes, o) }
func (r *countingRecorder) ObserveStageDuration(s string, d time.Duration) { r.stages[s] = d }
