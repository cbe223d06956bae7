package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
)

// Config represents the site-wide rde configuration.
type Config struct {
	Docs       DocsConfig                 `yaml:"docs"`
	Frameworks map[string]FrameworkConfig `yaml:"frameworks,omitempty"`
	Logging    LoggingConfig              `yaml:"logging,omitempty"`

	frameworks map[Framework]FrameworkConfig
}

// DocsConfig controls where documentation is read from and written to.
type DocsConfig struct {
	Dir         string   `yaml:"dir"`
	Output      string   `yaml:"output"`
	Templates   string   `yaml:"templates,omitempty"` // Optional override directory for docs templates
	Title       string   `yaml:"title"`
	ClassPrefix string   `yaml:"class_prefix"`
	Delimiters  []string `yaml:"delimiters,omitempty"`
}

// FrameworkConfig lists the CDN scripts injected into every page for a framework.
type FrameworkConfig struct {
	CDN []string `yaml:"cdn"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

const (
	DefaultConfigFile  = "rde.config.yaml"
	DefaultDocsDir     = "_docs"
	DefaultOutputDir   = "_docs_pages"
	DefaultTitle       = "RDE Suite"
	DefaultClassPrefix = "rde"
)

// DefaultDelimiters are the template action delimiters used by docs templates.
var DefaultDelimiters = [2]string{"<%", "%>"}

// Load reads the configuration file at configPath. A missing file is not an
// error: the returned config carries defaults and environment overrides.
func Load(configPath string) (*Config, error) {
	_ = loadEnvFile()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to unmarshal config").
				WithContext("path", configPath).
				Fatal().
				Build()
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := cfg.resolveFrameworks(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration populated purely from defaults.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	_ = cfg.resolveFrameworks()
	return cfg
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Docs.Dir) == "" {
		cfg.Docs.Dir = DefaultDocsDir
	}
	if strings.TrimSpace(cfg.Docs.Output) == "" {
		cfg.Docs.Output = DefaultOutputDir
	}
	if cfg.Docs.Title == "" {
		cfg.Docs.Title = DefaultTitle
	}
	if cfg.Docs.ClassPrefix == "" {
		cfg.Docs.ClassPrefix = DefaultClassPrefix
	}
	if len(cfg.Docs.Delimiters) != 2 || cfg.Docs.Delimiters[0] == "" || cfg.Docs.Delimiters[1] == "" {
		cfg.Docs.Delimiters = DefaultDelimiters[:]
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

// resolveFrameworks validates framework keys against the closed enum and
// merges them over the built-in CDN defaults.
func (c *Config) resolveFrameworks() error {
	resolved := make(map[Framework]FrameworkConfig, len(builtinFrameworks))
	for fw, fc := range builtinFrameworks {
		resolved[fw] = FrameworkConfig{CDN: append([]string(nil), fc.CDN...)}
	}
	for name, fc := range c.Frameworks {
		fw, err := ParseFramework(name)
		if err != nil {
			return err
		}
		resolved[fw] = fc
	}
	c.frameworks = resolved
	return nil
}

// Framework returns the CDN configuration for fw.
func (c *Config) Framework(fw Framework) (FrameworkConfig, error) {
	fc, ok := c.frameworks[fw]
	if !ok {
		return FrameworkConfig{}, foundationerrors.ConfigError(fmt.Sprintf("unsupported framework: %s", fw)).
			WithCause(ErrUnknownFramework).
			Build()
	}
	return fc, nil
}

// Delims returns the configured left and right template delimiters.
func (c *Config) Delims() (string, string) {
	return c.Docs.Delimiters[0], c.Docs.Delimiters[1]
}
