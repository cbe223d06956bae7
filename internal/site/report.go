package site

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/rde/internal/logfields"
	"git.home.luguber.info/inful/rde/internal/metrics"
)

// Stage names used for timing and log attribution.
const (
	StagePreflight = "preflight"
	StageTree      = "tree"
	StageRender    = "render"
	StageCommit    = "commit"
)

// BuildReport summarises a single build. It is never written into the output tree.
type BuildReport struct {
	BuildID        string
	Start          time.Time
	End            time.Time
	Pages          int // markdown pages rendered
	Assets         int // files copied verbatim
	Skipped        int // entries removed by the exclusion filter
	StageDurations map[string]time.Duration
	Outcome        metrics.Outcome
}

func newBuildReport(id string) *BuildReport {
	return &BuildReport{
		BuildID:        id,
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
	}
}

// Duration returns the wall time of the build.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

func (r *BuildReport) addStats(s Stats) {
	r.Pages += s.Pages
	r.Assets += s.Assets
	r.Skipped += s.Skipped
}

func (r *BuildReport) finish(outcome metrics.Outcome) {
	r.End = time.Now()
	r.Outcome = outcome
}

// LogValue implements slog.LogValuer.
func (r *BuildReport) LogValue() slog.Value {
	return slog.GroupValue(
		logfields.BuildID(r.BuildID),
		slog.String("outcome", string(r.Outcome)),
		slog.Int("pages", r.Pages),
		slog.Int("assets", r.Assets),
		slog.Int("skipped", r.Skipped),
		logfields.DurationMS(float64(r.Duration().Microseconds())/1000),
	)
}
