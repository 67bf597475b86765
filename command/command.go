// Package command provides the Command interface and the process runner used
// to execute mkvmerge.
//
// Builders such as merge.MergeBuilder implement Command: they project their
// state into an mkvmerge argument list, render it for display, and run it.
package command

import (
	"context"

	"mkvmux/models"
)

// RunMode selects how a command's output is handled.
type RunMode int

const (
	// ModeSilent captures the tool's output and surfaces it only on failure.
	ModeSilent RunMode = iota
	// ModeVerbose echoes the command line first and streams the tool's output
	// to the console.
	ModeVerbose
)

// String returns the mode name.
func (m RunMode) String() string {
	switch m {
	case ModeSilent:
		return "silent"
	case ModeVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// Command represents an mkvmerge invocation that can be built, previewed or run.
//
// Example usage:
//
//	mkv := merge.New()
//	_ = mkv.AddFile(ctx, merge.FilePath("movie.mkv"))
//	_ = mkv.SplitDuration(timeutil.Clock("00:30:00"))
//
//	fmt.Println(mkv.DryRun("out.mkv"))
//	result, err := mkv.Run(ctx, "out.mkv", command.ModeVerbose)
type Command interface {
	// BuildArgs returns the arguments following the binary name, starting with
	// "-o <outputPath>". The slice is suitable for exec.Command(bin, args...).
	BuildArgs(outputPath string) []string

	// DryRun returns the full command line, binary included, as one
	// shell-joined string without executing it.
	DryRun(outputPath string) string

	// Run executes the command and blocks until it completes.
	Run(ctx context.Context, outputPath string, mode RunMode) (*models.MuxResult, error)
}
