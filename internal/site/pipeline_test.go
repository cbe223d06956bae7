package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/rde/internal/docs"
	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/markdown"
	"git.home.luguber.info/inful/rde/internal/templates"
)

type mapLoader map[string]string

func (m mapLoader) Load(name string) (string, error) {
	src, ok := m[name]
	if !ok {
		return "", templates.ErrTemplateNotFound
	}
	return src, nil
}

func minimalLoader() mapLoader {
	return mapLoader{
		templates.DocsIndex:  "<% .title %>|<% .pageTitle %>|<% .style %>|<% .layout %>|<% .navs %>|<% .pages %>|<% .frameworkScripts %>|<% .userScripts %>|<% .content %>",
		templates.DocsStyle:  "S",
		templates.DocsLayout: "L",
	}
}

func newTestPipeline(t *testing.T, loader TemplateLoader) *Pipeline {
	t.Helper()
	p, err := NewPipeline(PipelineConfig{
		Title:            "RDE Suite",
		Navs:             []docs.NavEntry{{Title: "Docs", Main: true}},
		Pages:            []docs.DocPage{{Title: "a", URL: "/a.html"}},
		UserScripts:      "<script>u()</script>",
		FrameworkScripts: FrameworkScripts([]string{"https://cdn/x.js"}),
		Delims:           templates.DefaultDelims,
		Renderer:         markdown.NewRenderer(),
		Loader:           loader,
	})
	require.NoError(t, err)
	return p
}

func TestRenderPage_ComposesAllPlaceholders(t *testing.T) {
	p := newTestPipeline(t, minimalLoader())

	out, err := p.RenderPage("guide/intro.md", []byte("# Intro"))
	require.NoError(t, err)

	parts := strings.Split(string(out), "|")
	require.Len(t, parts, 9)
	assert.Equal(t, "RDE Suite", parts[0])
	assert.Equal(t, "intro", parts[1])
	assert.Equal(t, "S", parts[2])
	assert.Equal(t, "L", parts[3])
	assert.JSONEq(t, `[{"title":"Docs","main":true}]`, parts[4])
	assert.JSONEq(t, `[{"title":"a","url":"/a.html"}]`, parts[5])
	assert.Equal(t, `<script src="https://cdn/x.js"></script>`, parts[6])
	assert.Equal(t, "<script>u()</script>", parts[7])
	assert.Equal(t, "<h1 class=\"rde-h1\">Intro</h1>\n", parts[8])
}

func TestRenderPage_TitleFromFrontMatter(t *testing.T) {
	p := newTestPipeline(t, mapLoader{
		templates.DocsIndex:  "<% .pageTitle %>",
		templates.DocsStyle:  "",
		templates.DocsLayout: "",
	})
	out, err := p.RenderPage("a.md", []byte("---\ntitle: Custom\n---\n"))
	require.NoError(t, err)
	assert.Equal(t, "Custom", string(out))
}

func TestNewPipeline_TemplateErrors(t *testing.T) {
	t.Run("missing template", func(t *testing.T) {
		loader := minimalLoader()
		delete(loader, templates.DocsLayout)
		_, err := NewPipeline(PipelineConfig{Loader: loader, Renderer: markdown.NewRenderer()})
		require.ErrorIs(t, err, templates.ErrTemplateNotFound)
		assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryTemplate))
	})

	t.Run("malformed index", func(t *testing.T) {
		loader := minimalLoader()
		loader[templates.DocsIndex] = "<% .content "
		_, err := NewPipeline(PipelineConfig{Loader: loader, Renderer: markdown.NewRenderer()})
		require.ErrorIs(t, err, templates.ErrTemplateParse)
	})
}

func TestRenderAll_CopiesTree(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeTree(t, src, fixtureFiles)

	p := newTestPipeline(t, minimalLoader())
	stats, err := p.RenderAll(context.Background(), src, out)
	require.NoError(t, err)

	got := snapshot(t, out)
	for _, want := range []string{"index.html", "faq.html", "a.html", "b/c.html", "guide/intro.html", "logo.png"} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "guide/logo.png")
	assert.NotContains(t, got, "guide/partials/x.html")
	assert.NoDirExists(t, filepath.Join(out, "guide", "partials"))
	for rel := range got {
		assert.False(t, strings.HasSuffix(rel, ".md"), rel)
	}

	assert.Equal(t, fixtureFiles["logo.png"], got["logo.png"], "non-markdown files are copied byte for byte")
	assert.Equal(t, 5, stats.Pages)
	assert.Equal(t, 1, stats.Assets)
	assert.Equal(t, 2, stats.Skipped)
}

func TestRenderAll_DirectoryNamedLikeMarkdown(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeTree(t, src, map[string]string{"v1.md/intro.md": "# Intro\n"})

	p := newTestPipeline(t, minimalLoader())
	stats, err := p.RenderAll(context.Background(), src, out)
	require.NoError(t, err)

	got := snapshot(t, out)
	assert.Contains(t, got, "v1.md/intro.html")
	assert.NoDirExists(t, filepath.Join(out, "v1.html"))
	assert.Equal(t, 1, stats.Pages)
}

func TestRenderAll_OverwritesExistingFiles(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# new"})
	require.NoError(t, os.WriteFile(filepath.Join(out, "a.html"), []byte("stale content that is longer"), 0o600))

	p := newTestPipeline(t, mapLoader{templates.DocsIndex: "<% .content %>", templates.DocsStyle: "", templates.DocsLayout: ""})
	_, err := p.RenderAll(context.Background(), src, out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1 class=\"rde-h1\">new</h1>\n", string(data))
}

func TestRenderAll_StopsOnCancelledContext(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeTree(t, src, fixtureFiles)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t, minimalLoader())
	stats, err := p.RenderAll(ctx, src, out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Pages+stats.Assets)
}

func TestRenderAll_UnresolvedPlaceholderFails(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.md": "# a"})

	p := newTestPipeline(t, mapLoader{templates.DocsIndex: "<% .unknown %>", templates.DocsStyle: "", templates.DocsLayout: ""})
	_, err := p.RenderAll(context.Background(), src, t.TempDir())
	require.ErrorIs(t, err, templates.ErrUnresolvedPlaceholder)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryTemplate))
}

func TestOptions(t *testing.T) {
	opts := newTestPipeline(t, minimalLoader()).Options()
	assert.True(t, opts.Overwrite)

	assert.Equal(t, "guide/intro.html", opts.Rename("guide/intro.md"))
	assert.Equal(t, "logo.png", opts.Rename("logo.png"))
	assert.Equal(t, "notes.markdown", opts.Rename("notes.markdown"))

	assert.True(t, opts.Filter("guide"))
	assert.True(t, opts.Filter("guide/intro.md"))
	assert.False(t, opts.Filter("guide/sub"))
	assert.False(t, opts.Filter("guide/logo.png"))

	raw := []byte("# not rendered")
	got, err := opts.Transform("notes.txt", raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestFrameworkScripts(t *testing.T) {
	assert.Empty(t, FrameworkScripts(nil))
	assert.Equal(t,
		`<script src="https://a/x.js"></script><script src="https://b/y.js?a=1&amp;b=2"></script>`,
		FrameworkScripts([]string{"https://a/x.js", "https://b/y.js?a=1&b=2"}))
}

func TestNewPipeline_NilPagesEncodeAsEmptyArray(t *testing.T) {
	p, err := NewPipeline(PipelineConfig{Loader: minimalLoader(), Renderer: markdown.NewRenderer()})
	require.NoError(t, err)
	var pages []docs.DocPage
	require.NoError(t, json.Unmarshal([]byte(p.data["pages"]), &pages))
	assert.Equal(t, "[]", p.data["pages"])
}
