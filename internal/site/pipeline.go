package site

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/rde/internal/docs"
	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/logfields"
	"git.home.luguber.info/inful/rde/internal/metrics"
	"git.home.luguber.info/inful/rde/internal/templates"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// TemplateLoader resolves logical template names to template sources.
type TemplateLoader interface {
	Load(name string) (string, error)
}

// PipelineConfig carries everything shared by all pages of a run.
type PipelineConfig struct {
	Title            string
	Navs             []docs.NavEntry
	Pages            []docs.DocPage
	UserScripts      string
	FrameworkScripts string
	Delims           templates.Delims
	Renderer         docs.PageRenderer
	Loader           TemplateLoader
	Recorder         metrics.Recorder
	Logger           *slog.Logger
}

// Stats counts what a RenderAll call did.
type Stats struct {
	Pages   int
	Assets  int
	Skipped int
}

// Pipeline copies a docs tree into an output directory, rendering markdown
// files into composed pages. Files are processed one at a time in walk order.
type Pipeline struct {
	cfg   PipelineConfig
	index *templates.Template
	data  map[string]string
	extra map[string]string
}

// NewPipeline loads and parses the docs templates and serialises the shared
// page data. A missing or malformed template fails here, before anything is
// written.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NoopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	sources := make(map[string]string, 3)
	for _, name := range []string{templates.DocsIndex, templates.DocsStyle, templates.DocsLayout} {
		src, err := cfg.Loader.Load(name)
		if err != nil {
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryTemplate, "failed to load template").
				WithContext("template", name).
				Fatal().
				Build()
		}
		sources[name] = src
	}

	index, err := templates.Parse(templates.DocsIndex, sources[templates.DocsIndex], cfg.Delims)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryTemplate, "failed to parse template").
			WithContext("template", templates.DocsIndex).
			Fatal().
			Build()
	}

	pages := cfg.Pages
	if pages == nil {
		pages = []docs.DocPage{}
	}
	navsJSON, err := json.Marshal(cfg.Navs)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "failed to encode navigation").Build()
	}
	pagesJSON, err := json.Marshal(pages)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "failed to encode page tree").Build()
	}

	return &Pipeline{
		cfg:   cfg,
		index: index,
		data: map[string]string{
			"title": cfg.Title,
			"navs":  string(navsJSON),
			"pages": string(pagesJSON),
		},
		extra: map[string]string{
			"style":            sources[templates.DocsStyle],
			"layout":           sources[templates.DocsLayout],
			"userScripts":      cfg.UserScripts,
			"frameworkScripts": cfg.FrameworkScripts,
		},
	}, nil
}

// Options returns the render options the pipeline copies with.
func (p *Pipeline) Options() RenderOptions {
	return RenderOptions{
		Overwrite: true,
		Rename:    renameMarkdown,
		Filter:    keepPath,
		Transform: p.transform,
	}
}

// RenderPage renders the markdown src of the page at rel into a full HTML document.
func (p *Pipeline) RenderPage(rel string, src []byte) ([]byte, error) {
	res, err := p.cfg.Renderer.Render(src)
	if err != nil {
		return nil, err
	}
	title := res.Meta.Title
	if title == "" {
		title = pageTitle(rel)
	}

	data := make(map[string]string, len(p.data)+2)
	maps.Copy(data, p.data)
	data["pageTitle"] = title
	data["content"] = res.HTML

	out, err := p.index.Execute(data, p.extra)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryTemplate, "failed to compose page").
			WithContext("file", rel).
			Fatal().
			Build()
	}
	return []byte(out), nil
}

func (p *Pipeline) transform(rel string, content []byte) ([]byte, error) {
	if !docs.IsMarkdown(rel) {
		return content, nil
	}
	return p.RenderPage(rel, content)
}

// RenderAll copies sourceDir into outputDir. It returns after the whole tree
// has been processed, on the first error, or when ctx is cancelled.
func (p *Pipeline) RenderAll(ctx context.Context, sourceDir, outputDir string) (Stats, error) {
	opts := p.Options()
	var stats Stats

	if err := os.MkdirAll(outputDir, dirMode); err != nil {
		return stats, fsError(err, "failed to create output directory", outputDir)
	}

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return fsError(walkErr, "failed to walk docs", path)
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return fsError(err, "failed to resolve docs path", path)
		}
		if rel == "." {
			return nil
		}
		rel = norm.NFC.String(filepath.ToSlash(rel))

		if !opts.Filter(rel) {
			stats.Skipped++
			p.cfg.Logger.Debug("Excluded from output", logfields.File(rel))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			// Rename applies to files only.
			dir := filepath.Join(outputDir, filepath.FromSlash(rel))
			if err := os.MkdirAll(dir, dirMode); err != nil {
				return fsError(err, "failed to create directory", dir)
			}
			return nil
		}
		dest := filepath.Join(outputDir, filepath.FromSlash(opts.Rename(rel)))

		info, err := os.Stat(path)
		if err != nil {
			return fsError(err, "failed to stat docs file", path)
		}
		if !info.Mode().IsRegular() {
			stats.Skipped++
			p.cfg.Logger.Debug("Skipping non-regular file", logfields.File(rel))
			return nil
		}

		return p.copyFile(rel, path, dest, opts, &stats)
	})
	if err != nil {
		return stats, err
	}
	return stats, nil
}

func (p *Pipeline) copyFile(rel, src, dest string, opts RenderOptions, stats *Stats) error {
	content, err := os.ReadFile(src) // #nosec G304 -- walked from the docs root
	if err != nil {
		return fsError(err, "failed to read docs file", src)
	}

	out, err := opts.Transform(rel, content)
	if err != nil {
		return err
	}

	if !opts.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			stats.Skipped++
			return nil
		}
	}
	if err := os.WriteFile(dest, out, fileMode); err != nil {
		return fsError(err, "failed to write output file", dest)
	}

	if docs.IsMarkdown(rel) {
		stats.Pages++
		p.cfg.Recorder.IncPagesRendered()
		p.cfg.Logger.Debug("Rendered page", logfields.File(rel))
	} else {
		stats.Assets++
		p.cfg.Recorder.IncFilesCopied()
	}
	return nil
}

// FrameworkScripts renders one script element per CDN URL.
func FrameworkScripts(urls []string) string {
	var b strings.Builder
	for _, u := range urls {
		b.WriteString(`<script src="`)
		b.WriteString(html.EscapeString(u))
		b.WriteString(`"></script>`)
	}
	return b.String()
}

func fsError(err error, msg, path string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, msg).
		WithContext("path", path).
		Fatal().
		Build()
}
