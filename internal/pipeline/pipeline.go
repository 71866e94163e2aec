// Package pipeline runs the classification stages strictly in sequence over
// a shared catalog. A run holds an advisory lock on the library root so two
// concurrent invocations cannot interleave renames.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"shelfsort/internal/config"
	"shelfsort/internal/logging"
)

// Stage is one sequential pass over the catalog. Stages contain their own
// per-file errors; an error returned here is infrastructural and aborts the
// run.
type Stage interface {
	Name() string
	Execute(ctx context.Context) error
}

const lockFileName = ".shelfsort.lock"

// Runner executes stages in order under the library lock.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	stages []Stage
	lock   *flock.Flock
}

// NewRunner constructs a runner over the given stages. Stage order is
// execution order.
func NewRunner(cfg *config.Config, logger *slog.Logger, stages ...Stage) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Paths.LibraryDir, lockFileName)
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		stages: stages,
		lock:   flock.New(lockPath),
	}
}

// Run acquires the library lock and executes every stage to completion.
func (r *Runner) Run(ctx context.Context) error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire library lock: %w", err)
	}
	if !ok {
		return errors.New("another shelfsort run holds the library lock")
	}
	defer func() {
		_ = r.lock.Unlock()
	}()

	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))
	started := time.Now()
	logger.Info("run started", logging.String("library", r.cfg.Paths.LibraryDir))

	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		stageLogger := logger.With(logging.String(logging.FieldStage, stage.Name()))
		stageLogger.Info("stage started")
		stageStarted := time.Now()
		if err := stage.Execute(ctx); err != nil {
			stageLogger.Error("stage failed", logging.Error(err))
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		stageLogger.Info("stage completed", logging.Duration("elapsed", time.Since(stageStarted)))
	}

	logger.Info("run completed", logging.Duration("elapsed", time.Since(started)))
	return nil
}
