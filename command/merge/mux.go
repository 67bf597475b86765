package merge

import (
	"context"
	"os"
	"time"

	"github.com/ansel1/merry/v2"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mkvmux/command"
	"mkvmux/models"
)

// Run executes mkvmerge to write outputPath and blocks until it exits.
//
// An advisory lock on "<outputPath>.lock" keeps two mkvmux processes from
// writing the same output at once. Failures of mkvmerge itself wrap
// models.ErrExternalTool with the process error as cause, so errors.As still
// finds *exec.ExitError.
func (m *MergeBuilder) Run(ctx context.Context, outputPath string, mode command.RunMode) (*models.MuxResult, error) {
	if len(m.tracks) == 0 {
		return nil, merry.Wrap(models.ErrInvalidArgument, merry.WithMessage("no tracks to mux"))
	}
	outputPath = expandHome(outputPath)
	args := m.BuildArgs(outputPath)
	runID := uuid.NewString()

	lockPath := outputPath + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, merry.Prepend(err, "lock output "+outputPath)
	}
	if !locked {
		return nil, merry.Errorf("output %s is being written by another mkvmux process", outputPath)
	}
	defer func() {
		// unlink before unlocking so a waiting process never locks a file we delete
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("failed to remove output lock", zap.String("lock", lockPath), zap.Error(err))
		}
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release output lock", zap.String("lock", lockPath), zap.Error(err))
		}
	}()

	m.logger.Info("muxing",
		zap.String("run_id", runID),
		zap.String("output", outputPath),
		zap.Int("tracks", len(m.tracks)),
		zap.Stringer("mode", mode),
	)

	start := time.Now()
	if err := m.runner.Run(ctx, mode, m.mkvmergePath, args...); err != nil {
		m.logger.Error("mux failed", zap.String("run_id", runID), zap.Error(err))
		return nil, merry.Wrap(models.ErrExternalTool, merry.WithCause(err), merry.WithMessagef("mux %s: %v", outputPath, err))
	}
	elapsed := time.Since(start)

	m.logger.Info("mux complete",
		zap.String("run_id", runID),
		zap.String("output", outputPath),
		zap.Duration("elapsed", elapsed),
	)
	return models.NewMuxResult(runID, outputPath, args, elapsed)
}

// Mux writes outputPath. When silent is false the command line is echoed and
// mkvmerge's output is streamed to the console.
func (m *MergeBuilder) Mux(ctx context.Context, outputPath string, silent bool) (*models.MuxResult, error) {
	mode := command.ModeVerbose
	if silent {
		mode = command.ModeSilent
	}
	return m.Run(ctx, outputPath, mode)
}
