package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/foundation/normalization"
)

// ProjectKind distinguishes framework packages from starter kits.
type ProjectKind string

const (
	KindFramework  ProjectKind = "framework"
	KindStarterKit ProjectKind = "starter-kit"
)

const (
	DefaultProjectFile = "rde.yaml"
	packageJSONFile    = "package.json"

	frameworkSuffix  = "-rdt"
	starterKitSuffix = "-rds"
)

var kindNormalizer = normalization.NewEnumNormalizer("project kind", map[string]ProjectKind{
	"framework":   KindFramework,
	"starter-kit": KindStarterKit,
	"rdt":         KindFramework,
	"rds":         KindStarterKit,
}, KindStarterKit)

// Project is the project-local configuration.
type Project struct {
	Kind      ProjectKind `yaml:"kind,omitempty"`
	Framework Framework   `yaml:"framework,omitempty"`
	Docs      ProjectDocs `yaml:"docs,omitempty"`
}

// ProjectDocs holds per-project docs settings.
type ProjectDocs struct {
	UserScripts string `yaml:"user_scripts,omitempty"` // Raw HTML injected into every page
}

// IsFramework reports whether the project is a framework package.
func (p *Project) IsFramework() bool { return p.Kind == KindFramework }

// LoadProject reads the project file at path. When the file is missing or does
// not declare a kind, the kind is derived from the package.json name in dir.
func LoadProject(dir, path string) (*Project, error) {
	if path == "" {
		path = DefaultProjectFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	p := &Project{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to read project file").
			WithContext("path", path).
			Fatal().
			Build()
	default:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), p); err != nil {
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to unmarshal project file").
				WithContext("path", path).
				Fatal().
				Build()
		}
	}

	if strings.TrimSpace(string(p.Kind)) == "" {
		kind, err := kindFromPackageJSON(dir)
		if err != nil {
			return nil, err
		}
		p.Kind = kind
	} else {
		kind, err := kindNormalizer.NormalizeWithValidation(string(p.Kind))
		if err != nil {
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "invalid project kind").
				WithContext("path", path).
				Fatal().
				Build()
		}
		p.Kind = kind
	}

	fw, err := ParseFramework(string(p.Framework))
	if err != nil {
		return nil, err
	}
	p.Framework = fw
	return p, nil
}

func kindFromPackageJSON(dir string) (ProjectKind, error) {
	path := filepath.Join(dir, packageJSONFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "cannot determine project kind").
			WithContext("path", path).
			Fatal().
			Build()
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to parse package.json").
			WithContext("path", path).
			Fatal().
			Build()
	}
	return KindFromPackageName(pkg.Name)
}

// KindFromPackageName derives the project kind from a package name suffix.
func KindFromPackageName(name string) (ProjectKind, error) {
	switch {
	case strings.HasSuffix(name, frameworkSuffix):
		return KindFramework, nil
	case strings.HasSuffix(name, starterKitSuffix):
		return KindStarterKit, nil
	default:
		return "", foundationerrors.ConfigError(
			fmt.Sprintf("wrong package name format %q, please end it with %s or %s", name, frameworkSuffix, starterKitSuffix),
		).Build()
	}
}
