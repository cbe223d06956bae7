package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
)

// Pages every docs tree must provide.
const (
	IndexPage = "index.md"
	FAQPage   = "faq.md"
)

var (
	ErrDocsDirMissing      = errors.New("docs directory not found")
	ErrMissingRequiredPage = errors.New("required page not found")
)

// Validate runs the preflight checks that must pass before any output is written.
func Validate(cfg *Config, project *Project) error {
	if cfg == nil || project == nil {
		return foundationerrors.InternalError("validate called without configuration").Build()
	}

	info, err := os.Stat(cfg.Docs.Dir)
	if err != nil || !info.IsDir() {
		return foundationerrors.WrapError(ErrDocsDirMissing, foundationerrors.CategoryConfig, "cannot find docs dir, please provide").
			WithContext("path", cfg.Docs.Dir).
			Fatal().
			Build()
	}

	for _, name := range []string{IndexPage, FAQPage} {
		p := filepath.Join(cfg.Docs.Dir, name)
		if fi, err := os.Stat(p); err != nil || !fi.Mode().IsRegular() {
			return foundationerrors.WrapError(ErrMissingRequiredPage, foundationerrors.CategoryConfig, "cannot find "+name+" in docs dir, please provide").
				WithContext("path", p).
				Fatal().
				Build()
		}
	}

	if _, err := cfg.Framework(project.Framework); err != nil {
		return err
	}

	if samePath(cfg.Docs.Dir, cfg.Docs.Output) {
		return foundationerrors.ValidationError("docs output must differ from docs dir").
			WithContext("path", cfg.Docs.Output).
			Build()
	}
	if isWithin(cfg.Docs.Dir, cfg.Docs.Output) {
		return foundationerrors.ValidationError("docs output must not be inside docs dir").
			WithContext("path", cfg.Docs.Output).
			Build()
	}
	return nil
}

func absClean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func samePath(a, b string) bool {
	return absClean(a) == absClean(b)
}

// isWithin reports whether path lies below root.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(absClean(root), absClean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
