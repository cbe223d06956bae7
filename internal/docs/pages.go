package docs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	derrors "git.home.luguber.info/inful/rde/internal/docs/errors"
	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/logfields"
	"git.home.luguber.info/inful/rde/internal/markdown"
)

// DocPage is a node of the page tree. Leaves carry a URL; categories carry
// children and no URL.
type DocPage struct {
	Title    string    `json:"title"`
	URL      string    `json:"url,omitempty"`
	Children []DocPage `json:"children,omitempty"`
}

// IsCategory reports whether p groups child pages.
func (p DocPage) IsCategory() bool { return len(p.Children) > 0 }

// PageRenderer renders markdown and reports its front-matter metadata.
type PageRenderer interface {
	Render(src []byte) (markdown.Result, error)
}

// Builder builds the page tree of a docs root.
type Builder struct {
	root     string
	renderer PageRenderer
	logger   *slog.Logger
}

// NewBuilder creates a Builder for root.
func NewBuilder(root string, renderer PageRenderer, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{root: root, renderer: renderer, logger: logger}
}

// Build lists the docs root one level deep and returns the page tree in
// directory-listing order. Any unreadable file fails the whole build.
func (b *Builder) Build(ctx context.Context) ([]DocPage, error) {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		return nil, b.fsError(derrors.ErrDocsDirReadFailed, b.root, err)
	}

	var pages []DocPage
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := norm.NFC.String(entry.Name())
		switch {
		case entry.IsDir():
			category, ok, err := b.buildCategory(ctx, entry.Name(), name)
			if err != nil {
				return nil, err
			}
			if !ok {
				b.logger.Debug("Skipping empty category", logfields.Section(name))
				continue
			}
			pages = append(pages, category)
		case isMarkdownFile(entry):
			page, _, err := b.buildPage(entry.Name(), name)
			if err != nil {
				return nil, err
			}
			pages = append(pages, page)
		}
	}

	b.logger.Debug("Page tree built", logfields.Path(b.root), logfields.Count(len(pages)))
	return pages, nil
}

func (b *Builder) buildCategory(ctx context.Context, dirName, name string) (DocPage, bool, error) {
	dir := filepath.Join(b.root, dirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return DocPage{}, false, b.fsError(derrors.ErrDocsDirReadFailed, dir, err)
	}

	category := DocPage{Title: name}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return DocPage{}, false, err
		}
		childName := norm.NFC.String(entry.Name())
		if IsExcluded(path.Join(name, childName)) || !isMarkdownFile(entry) {
			continue
		}

		page, meta, err := b.buildPage(filepath.Join(dirName, entry.Name()), path.Join(name, childName))
		if err != nil {
			return DocPage{}, false, err
		}
		if meta.Category != "" {
			category.Title = meta.Category
		}
		category.Children = append(category.Children, page)
	}
	return category, len(category.Children) > 0, nil
}

// buildPage renders the file at fsRel (relative to the root, OS separators)
// and returns the leaf for the normalised slash path rel.
func (b *Builder) buildPage(fsRel, rel string) (DocPage, markdown.Metadata, error) {
	file := filepath.Join(b.root, fsRel)
	content, err := os.ReadFile(file)
	if err != nil {
		return DocPage{}, markdown.Metadata{}, b.fsError(derrors.ErrFileReadFailed, file, err)
	}

	res, err := b.renderer.Render(content)
	if err != nil {
		return DocPage{}, markdown.Metadata{}, foundationerrors.WrapError(
			fmt.Errorf("%w: %w", derrors.ErrRenderFailed, err),
			foundationerrors.CategoryInternal, "failed to render page").
			WithContext("file", rel).
			Build()
	}

	title := res.Meta.Title
	if title == "" {
		title = strings.TrimSuffix(path.Base(rel), markdownExt)
	}
	return DocPage{Title: title, URL: PageURL(rel)}, res.Meta, nil
}

func (b *Builder) fsError(sentinel error, p string, err error) error {
	return foundationerrors.WrapError(fmt.Errorf("%w: %w", sentinel, err), foundationerrors.CategoryFileSystem, "failed to read docs").
		WithContext("path", p).
		Fatal().
		Build()
}

func isMarkdownFile(entry fs.DirEntry) bool {
	return entry.Type().IsRegular() && IsMarkdown(entry.Name())
}
