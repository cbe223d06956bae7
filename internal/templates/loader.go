package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed assets/docs/*.html
var embedded embed.FS

// Loader resolves logical template names. A custom directory, when set, takes
// precedence file by file with fallback to the embedded defaults.
type Loader struct {
	customDir string
}

// NewLoader creates a Loader. An empty customDir uses only embedded templates.
func NewLoader(customDir string) (*Loader, error) {
	if customDir == "" {
		return &Loader{}, nil
	}

	absPath, err := filepath.Abs(customDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateDir, err)
	}
	if real, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = real
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidTemplateDir, absPath)
	}
	return &Loader{customDir: absPath}, nil
}

// Load returns the template source for name.
func (l *Loader) Load(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	if l.customDir != "" {
		content, err := l.loadCustom(name)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			return "", err
		}
	}
	return loadEmbedded(name)
}

// HasCustomDir reports whether an override directory is configured.
func (l *Loader) HasCustomDir() bool { return l.customDir != "" }

func (l *Loader) loadCustom(name string) (string, error) {
	path := filepath.Join(l.customDir, filepath.FromSlash(name)+templateExt)

	resolved := path
	if real, err := filepath.EvalSymlinks(path); err == nil {
		resolved = real
	}
	if !strings.HasPrefix(resolved, l.customDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes template directory", ErrInvalidTemplateName, name)
	}

	content, err := os.ReadFile(resolved) // #nosec G304 -- name validated and contained above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrTemplateRead, err)
	}
	return string(content), nil
}

func loadEmbedded(name string) (string, error) {
	content, err := embedded.ReadFile("assets/" + name + templateExt)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}
