package site

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/rde/internal/config"
	"git.home.luguber.info/inful/rde/internal/docs"
	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/logfields"
	"git.home.luguber.info/inful/rde/internal/markdown"
	"git.home.luguber.info/inful/rde/internal/metrics"
	"git.home.luguber.info/inful/rde/internal/staging"
	"git.home.luguber.info/inful/rde/internal/templates"
)

// Generator builds the docs site described by a configuration and project.
// A Generator may run any number of builds; each Generate call is independent.
type Generator struct {
	config   *config.Config
	project  *config.Project
	renderer *markdown.Renderer
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(cfg *config.Config, project *config.Project) *Generator {
	return &Generator{
		config:   cfg,
		project:  project,
		renderer: markdown.NewRenderer(markdown.WithClassPrefix(cfg.Docs.ClassPrefix)),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// SetLogger replaces the default logger. Returns the generator for chaining.
func (g *Generator) SetLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// Config exposes the underlying configuration.
func (g *Generator) Config() *config.Config { return g.config }

// Generate runs one build. The output directory is replaced atomically on
// success, left untouched on failure, and removed when ctx is cancelled while
// output is being staged. The report is returned in every case.
func (g *Generator) Generate(ctx context.Context) (*BuildReport, error) {
	report := newBuildReport(uuid.NewString())
	log := g.logger.With(logfields.BuildID(report.BuildID))
	log.Info("Starting docs build",
		logfields.Path(g.config.Docs.Dir),
		slog.String("output", g.config.Docs.Output),
		logfields.Framework(string(g.project.Framework)))

	err := g.generate(ctx, log, report)
	outcome := outcomeFor(ctx, err)
	report.finish(outcome)

	g.recorder.ObserveBuildDuration(report.Duration())
	g.recorder.IncBuildOutcome(outcome)

	switch outcome {
	case metrics.OutcomeSuccess:
		log.Info("Docs build completed", slog.Any("report", report))
		return report, nil
	case metrics.OutcomeInterrupted:
		log.Warn("Docs build interrupted", slog.Any("report", report))
		return report, foundationerrors.WrapError(err, foundationerrors.CategoryInterrupted, "build interrupted").
			WithSeverity(foundationerrors.SeverityInfo).
			Build()
	default:
		log.Error("Docs build failed", slog.Any("report", report), logfields.Error(err))
		return report, err
	}
}

func (g *Generator) generate(ctx context.Context, log *slog.Logger, report *BuildReport) error {
	var (
		fw       config.FrameworkConfig
		pages    []docs.DocPage
		pipeline *Pipeline
	)

	if err := g.stage(report, StagePreflight, func() error {
		if err := config.Validate(g.config, g.project); err != nil {
			return err
		}
		var err error
		fw, err = g.config.Framework(g.project.Framework)
		return err
	}); err != nil {
		return err
	}

	if err := g.stage(report, StageTree, func() error {
		var err error
		pages, err = docs.NewBuilder(g.config.Docs.Dir, g.renderer, log).Build(ctx)
		return err
	}); err != nil {
		return err
	}

	loader, err := templates.NewLoader(g.config.Docs.Templates)
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "invalid template directory").
			WithContext("path", g.config.Docs.Templates).
			Fatal().
			Build()
	}
	left, right := g.config.Delims()
	pipeline, err = NewPipeline(PipelineConfig{
		Title:            g.config.Docs.Title,
		Navs:             docs.Navigation(g.project.Kind),
		Pages:            pages,
		UserScripts:      g.project.Docs.UserScripts,
		FrameworkScripts: FrameworkScripts(fw.CDN),
		Delims:           templates.Delims{Left: left, Right: right},
		Renderer:         g.renderer,
		Loader:           loader,
		Recorder:         g.recorder,
		Logger:           log,
	})
	if err != nil {
		return err
	}

	guard := staging.NewGuard(g.config.Docs.Output, log)
	if err := guard.Begin(); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to prepare staging directory").
			WithContext("path", guard.Dir()).
			Fatal().
			Build()
	}

	err = g.stage(report, StageRender, func() error {
		stats, err := pipeline.RenderAll(ctx, g.config.Docs.Dir, guard.Dir())
		report.addStats(stats)
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			if ierr := guard.Interrupt(); ierr != nil {
				return errors.Join(err, ierr)
			}
			return err
		}
		guard.Abort()
		return err
	}

	return g.stage(report, StageCommit, func() error {
		if err := guard.Commit(); err != nil {
			guard.Abort()
			return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to promote output").
				WithContext("path", guard.Output()).
				Fatal().
				Build()
		}
		return nil
	})
}

func (g *Generator) stage(report *BuildReport, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	report.StageDurations[name] = d
	g.recorder.ObserveStageDuration(name, d)
	return err
}

func outcomeFor(ctx context.Context, err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return metrics.OutcomeInterrupted
	default:
		return metrics.OutcomeFailed
	}
}
