// Package mkvprobe identifies the tracks and container properties of media
// files using "mkvmerge -J".
package mkvprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ansel1/merry/v2"
	"go.uber.org/zap"

	"mkvmux/internal/logging"
	"mkvmux/models"
)

// DefaultMkvmergePath is the binary used when no path is configured.
const DefaultMkvmergePath = "mkvmerge"

// TrackProperties holds the per-track properties mkvmux reads. Pointer fields
// distinguish a property mkvmerge did not report from a false value.
type TrackProperties struct {
	DefaultTrack *bool  `json:"default_track,omitempty"`
	ForcedTrack  *bool  `json:"forced_track,omitempty"`
	Language     string `json:"language,omitempty"`
	LanguageIETF string `json:"language_ietf,omitempty"`
	TrackName    string `json:"track_name,omitempty"`
	CodecID      string `json:"codec_id,omitempty"`
	Number       int    `json:"number,omitempty"`
}

// Track is one entry of the "tracks" array.
type Track struct {
	ID         int             `json:"id"`
	Type       string          `json:"type"`
	Codec      string          `json:"codec"`
	Properties TrackProperties `json:"properties"`
}

// ContainerProperties holds the container-level properties mkvmux reads.
// Duration is in nanoseconds.
type ContainerProperties struct {
	Title    string `json:"title,omitempty"`
	Duration int64  `json:"duration,omitempty"`
}

// Container describes the probed file's container.
type Container struct {
	Type       string              `json:"type"`
	Recognized bool                `json:"recognized"`
	Supported  bool                `json:"supported"`
	Properties ContainerProperties `json:"properties"`
}

// Attachment is one entry of the "attachments" array.
type Attachment struct {
	ID          int    `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Chapter is one entry of the "chapters" array.
type Chapter struct {
	NumEntries int `json:"num_entries"`
}

// Result holds the identification output for one file.
type Result struct {
	FileName    string       `json:"file_name"`
	Container   Container    `json:"container"`
	Tracks      []Track      `json:"tracks"`
	Attachments []Attachment `json:"attachments"`
	Chapters    []Chapter    `json:"chapters"`
}

// Title returns the container's embedded title, or "" if it has none.
func (r *Result) Title() string {
	return r.Container.Properties.Title
}

// DurationSeconds returns the container duration in seconds, or 0 when
// mkvmerge did not report one.
func (r *Result) DurationSeconds() float64 {
	return float64(r.Container.Properties.Duration) / 1e9
}

// ChapterCount returns the number of chapter entries in the file.
func (r *Result) ChapterCount() int {
	total := 0
	for _, ch := range r.Chapters {
		total += ch.NumEntries
	}
	return total
}

// ModelTracks converts the probed tracks into models.Track values, in probe
// order, with sourcePath as their source. Properties mkvmerge did not report
// keep their zero values.
func (r *Result) ModelTracks(sourcePath string) []models.Track {
	tracks := make([]models.Track, 0, len(r.Tracks))
	for _, pt := range r.Tracks {
		tracks = append(tracks, pt.ModelTrack(sourcePath))
	}
	return tracks
}

// ModelTrack converts a probed track into a models.Track.
func (t Track) ModelTrack(sourcePath string) models.Track {
	track := models.Track{
		SourcePath: sourcePath,
		TrackID:    t.ID,
		Type:       models.ParseTrackType(t.Type),
		Name:       t.Properties.TrackName,
		Language:   t.Properties.Language,
	}
	if t.Properties.DefaultTrack != nil {
		track.Default = *t.Properties.DefaultTrack
	}
	if t.Properties.ForcedTrack != nil {
		track.Forced = *t.Properties.ForcedTrack
	}
	return track
}

// FindTrack returns the probed track with the given id.
func (r *Result) FindTrack(id int) (Track, bool) {
	for _, t := range r.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// Prober identifies media files.
type Prober interface {
	Identify(ctx context.Context, path string) (*Result, error)
}

// outputRunner runs a command and returns its standard output.
type outputRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecProber identifies files by running mkvmerge.
type ExecProber struct {
	mkvmergePath string
	logger       *zap.Logger
	run          outputRunner
}

// NewExecProber returns a prober running the mkvmerge binary at mkvmergePath.
// An empty path selects DefaultMkvmergePath.
func NewExecProber(mkvmergePath string, logger *zap.Logger) *ExecProber {
	if strings.TrimSpace(mkvmergePath) == "" {
		mkvmergePath = DefaultMkvmergePath
	}
	return &ExecProber{
		mkvmergePath: mkvmergePath,
		logger:       logging.Component(logger, "probe"),
		run:          defaultOutputRunner,
	}
}

// WithRunner swaps the process runner. Intended for tests.
func (p *ExecProber) WithRunner(r outputRunner) *ExecProber {
	if r != nil {
		p.run = r
	}
	return p
}

// Identify runs "mkvmerge -J <path>" and parses its output.
//
// Example:
//
//	result, err := mkvprobe.NewExecProber("mkvmerge", nil).Identify(ctx, "movie.mkv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d tracks, title %q\n", len(result.Tracks), result.Title())
func (p *ExecProber) Identify(ctx context.Context, path string) (*Result, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	p.logger.Debug("identifying file", zap.String("path", path), zap.String("mkvmerge", p.mkvmergePath))

	output, err := p.run(ctx, p.mkvmergePath, "-J", path)
	if err != nil {
		return nil, merry.Wrap(models.ErrExternalTool, merry.WithCause(err), merry.WithMessagef("mkvmerge -J %s failed: %v", path, err))
	}

	result, err := parseIdentifyOutput(output)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("identified file",
		zap.String("path", path),
		zap.Int("tracks", len(result.Tracks)),
		zap.String("container", result.Container.Type),
	)
	return result, nil
}

// parseIdentifyOutput decodes mkvmerge's JSON identification output.
func parseIdentifyOutput(output []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, merry.Wrap(models.ErrExternalTool, merry.WithCause(err), merry.WithMessagef("failed to parse mkvmerge JSON output: %v", err))
	}
	return &result, nil
}

func defaultOutputRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		// mkvmerge reports identification errors on stdout
		if len(output) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
		}
		return nil, err
	}
	return output, nil
}
