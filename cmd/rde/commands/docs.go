package commands

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"git.home.luguber.info/inful/rde/internal/config"
	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/logfields"
	"git.home.luguber.info/inful/rde/internal/metrics"
	"git.home.luguber.info/inful/rde/internal/preview"
	"git.home.luguber.info/inful/rde/internal/site"
)

// DocsCmd groups the documentation site commands.
type DocsCmd struct {
	Build DocsBuildCmd `cmd:"" help:"Generate the static documentation site"`
	Serve DocsServeCmd `cmd:"" help:"Build, serve and rebuild the documentation site on change"`
}

// SiteFlags override the docs section of the configuration file.
type SiteFlags struct {
	DocsDir   string `name:"docs-dir" short:"d" help:"Documentation source directory (default: _docs)"`
	Output    string `short:"o" help:"Output directory for the generated site (default: _docs_pages)"`
	Templates string `help:"Directory with template overrides"`
}

func (f SiteFlags) apply(cfg *config.Config) {
	if f.DocsDir != "" {
		cfg.Docs.Dir = f.DocsDir
	}
	if f.Output != "" {
		cfg.Docs.Output = f.Output
	}
	if f.Templates != "" {
		cfg.Docs.Templates = f.Templates
	}
}

// DocsBuildCmd implements 'docs build'.
type DocsBuildCmd struct {
	SiteFlags   `embed:""`
	MetricsFile string `name:"metrics-file" help:"Write build metrics to this file in Prometheus textfile format"`
}

func (b *DocsBuildCmd) Run(g *Global, cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return b.run(ctx, g, cli)
}

func (b *DocsBuildCmd) run(ctx context.Context, g *Global, cli *CLI) error {
	gen, logger, err := newGenerator(g, cli, b.SiteFlags)
	if err != nil {
		return err
	}

	var recorder *metrics.PrometheusRecorder
	if b.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		gen.SetRecorder(recorder)
	}

	report, buildErr := gen.Generate(ctx)

	if recorder != nil {
		if err := recorder.WriteTextfile(b.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics file", logfields.Path(b.MetricsFile), logfields.Error(err))
			if buildErr == nil {
				return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to write metrics file").
					WithContext("path", b.MetricsFile).
					Build()
			}
		}
	}
	if buildErr != nil {
		return buildErr
	}

	logger.Info("Docs site generated",
		logfields.Path(gen.Config().Docs.Output),
		slog.Int("pages", report.Pages),
		slog.Int("assets", report.Assets))
	return nil
}

// DocsServeCmd implements 'docs serve'.
type DocsServeCmd struct {
	SiteFlags `embed:""`
	Host      string `default:"localhost" help:"Interface to listen on"`
	Port      int    `short:"p" default:"8080" help:"Port to listen on"`
}

func (s *DocsServeCmd) Run(g *Global, cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.run(ctx, g, cli)
}

func (s *DocsServeCmd) run(ctx context.Context, g *Global, cli *CLI) error {
	gen, logger, err := newGenerator(g, cli, s.SiteFlags)
	if err != nil {
		return err
	}
	recorder := metrics.NewPrometheusRecorder(nil)
	gen.SetRecorder(recorder)

	cfg := gen.Config()
	srv := preview.NewServer(gen, preview.Options{
		Addr:    net.JoinHostPort(s.Host, strconv.Itoa(s.Port)),
		Output:  cfg.Docs.Output,
		Watch:   []string{cfg.Docs.Dir, cfg.Docs.Templates},
		Metrics: metrics.HTTPHandler(recorder.Registry()),
		Logger:  logger,
	})
	return srv.Run(ctx)
}

// newGenerator loads the site and project configuration, applies flag
// overrides and reconfigures logging from the loaded config.
func newGenerator(g *Global, cli *CLI, flags SiteFlags) (*site.Generator, *slog.Logger, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, g.logger(), err
	}
	flags.apply(cfg)

	logger := cli.configureLogging(cfg.Logging)

	project, err := config.LoadProject(".", cli.Project)
	if err != nil {
		return nil, logger, err
	}
	logger.Debug("Configuration loaded",
		slog.String("config", cli.Config),
		logfields.Path(cfg.Docs.Dir),
		slog.String("kind", string(project.Kind)),
		logfields.Framework(string(project.Framework)))

	return site.NewGenerator(cfg, project).SetLogger(logger), logger, nil
}
