package commands

import (
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/rde/internal/config"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string `short:"c" help:"Site configuration file (optional)" default:"rde.config.yaml"`
	Project   string `help:"Project configuration file" default:"rde.yaml"`
	Verbose   bool   `short:"v" help:"Enable verbose logging"`
	LogFormat string `name:"log-format" help:"Log output format (text or json); defaults to the config file setting" default:""`

	Docs    DocsCmd    `cmd:"" help:"Build or preview the documentation site"`
	Version VersionCmd `cmd:"" help:"Print version information"`

	logOut io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.configureLogging(config.LoggingConfig{
		Level:  config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel)),
		Format: config.NormalizeLogFormat(os.Getenv(config.EnvLogFormat)),
	})
	return nil
}

// configureLogging installs the default slog handler. Flags win over the
// configuration file.
func (c *CLI) configureLogging(lc config.LoggingConfig) *slog.Logger {
	level := lc.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	format := lc.Format
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}

	out := c.logOut
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
