package metrics

import "time"

// Outcome enumerates final build states.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)

// Recorder defines observability hooks for docs builds. Implementations must
// be safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncPagesRendered()
	IncFilesCopied()
	IncBuildOutcome(outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncPagesRendered()                          {}
func (NoopRecorder) IncFilesCopied()                            {}
func (NoopRecorder) IncBuildOutcome(Outcome)                    {}
