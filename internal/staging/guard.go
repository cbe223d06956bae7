// Package staging makes docs output appear atomically.
//
// A Guard owns the output directory for the duration of a build. Pages are
// written into a sibling "<output>_stage" directory which is promoted with a
// rename on Commit. Abort discards the staging directory and keeps the
// previous output; Interrupt discards both so an interrupted run never leaves
// a partially written site behind.
package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/rde/internal/logfields"
)

const (
	stageSuffix  = "_stage"
	backupSuffix = ".prev"
)

// ErrNotArmed is returned by Commit when Begin has not been called or the guard was already released.
var ErrNotArmed = errors.New("staging guard not armed")

type state int

const (
	stateIdle state = iota
	stateArmed
	stateReleased
)

// Guard coordinates staged writes to an output directory. It is safe to call
// Interrupt from a signal handling goroutine while a build runs.
type Guard struct {
	mu     sync.Mutex
	output string
	stage  string
	state  state
	logger *slog.Logger
}

// NewGuard creates a Guard for output.
func NewGuard(output string, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	output = filepath.Clean(output)
	return &Guard{output: output, stage: output + stageSuffix, logger: logger}
}

// Output returns the final output directory.
func (g *Guard) Output() string { return g.output }

// Dir returns the staging directory pages must be written into.
func (g *Guard) Dir() string { return g.stage }

// Armed reports whether an interrupt would currently clean up.
func (g *Guard) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == stateArmed
}

// Begin removes a stale staging directory left by a killed run, creates a
// fresh one and arms the guard.
func (g *Guard) Begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := os.RemoveAll(g.stage); err != nil {
		return fmt.Errorf("remove stale staging directory: %w", err)
	}
	if err := os.MkdirAll(g.stage, 0o750); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	g.state = stateArmed
	g.logger.Debug("Initialized staging directory", slog.String("staging", g.stage), logfields.Path(g.output))
	return nil
}

// Commit promotes the staging directory to the output location and disarms
// the guard. The previous output is moved aside and removed once the new one
// is in place; if promotion fails it is restored.
func (g *Guard) Commit() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateArmed {
		return ErrNotArmed
	}
	if _, err := os.Stat(g.stage); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := g.output + backupSuffix
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove previous backup: %w", err)
	}

	hadOutput := false
	if _, err := os.Stat(g.output); err == nil {
		if err := os.Rename(g.output, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
		hadOutput = true
	}

	if err := os.Rename(g.stage, g.output); err != nil {
		if hadOutput {
			if rerr := os.Rename(prev, g.output); rerr != nil {
				g.logger.Error("Failed to restore previous output", logfields.Path(g.output), logfields.Error(rerr))
			}
		}
		return fmt.Errorf("promote staging: %w", err)
	}
	g.state = stateReleased

	if hadOutput {
		if err := os.RemoveAll(prev); err != nil {
			g.logger.Warn("Failed to remove previous output", logfields.Path(prev), logfields.Error(err))
		}
	}
	g.logger.Info("Promoted staging directory", logfields.Path(g.output))
	return nil
}

// Abort discards the staging directory after a failed build. The previous
// output is left untouched.
func (g *Guard) Abort() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateArmed {
		return
	}
	g.state = stateReleased
	if err := os.RemoveAll(g.stage); err != nil {
		g.logger.Warn("Failed to remove staging directory after abort", slog.String("staging", g.stage), logfields.Error(err))
		return
	}
	g.logger.Debug("Removed staging directory after abort", slog.String("staging", g.stage))
}

// Interrupt synchronously removes the staging directory and the output
// directory. It is a no-op unless the guard is armed.
func (g *Guard) Interrupt() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateArmed {
		return nil
	}
	g.state = stateReleased

	errStage := os.RemoveAll(g.stage)
	errOut := os.RemoveAll(g.output)
	if err := errors.Join(errStage, errOut); err != nil {
		g.logger.Error("Failed to clean up after interrupt", logfields.Path(g.output), logfields.Error(err))
		return err
	}
	g.logger.Info("Removed output after interrupt", logfields.Path(g.output))
	return nil
}
