// Package merge models an MKV output file as an ordered collection of tracks
// plus file-level settings, and serializes it into an mkvmerge command.
package merge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mkvmux/command"
	"mkvmux/command/split"
	"mkvmux/internal/language"
	"mkvmux/internal/logging"
	"mkvmux/internal/timeutil"
	"mkvmux/mkvprobe"
	"mkvmux/models"
)

// MergeBuilder constructs mkvmerge commands that combine tracks from one or
// more source files into a single Matroska file.
//
// Tracks are kept in the order they were added; that order is the stream
// order of the output and the only way to address a track. A builder is not
// safe for concurrent use.
type MergeBuilder struct {
	mkvmergePath string
	sourcePath   string

	title           string
	tracks          []models.Track
	chaptersFile    string
	chapterLanguage string
	split           split.Directive

	prober    mkvprobe.Prober
	runner    command.Runner
	languages *language.List
	logger    *zap.Logger
}

var _ command.Command = (*MergeBuilder)(nil)

// Option configures a MergeBuilder.
type Option func(*MergeBuilder)

// WithMkvmergePath sets the mkvmerge binary used for identification and muxing.
func WithMkvmergePath(path string) Option {
	return func(m *MergeBuilder) {
		if strings.TrimSpace(path) != "" {
			m.mkvmergePath = path
		}
	}
}

// WithProber sets the prober used to identify source files.
func WithProber(p mkvprobe.Prober) Option {
	return func(m *MergeBuilder) {
		m.prober = p
	}
}

// WithRunner sets the process runner used by Run and Mux.
func WithRunner(r command.Runner) Option {
	return func(m *MergeBuilder) {
		m.runner = r
	}
}

// WithLanguages sets the ISO639-2 list chapter languages are checked against.
func WithLanguages(l *language.List) Option {
	return func(m *MergeBuilder) {
		m.languages = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *MergeBuilder) {
		m.logger = logging.Component(l, "merge")
	}
}

// New creates an empty MergeBuilder.
func New(opts ...Option) *MergeBuilder {
	m := &MergeBuilder{
		mkvmergePath: mkvprobe.DefaultMkvmergePath,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.prober == nil {
		m.prober = mkvprobe.NewExecProber(m.mkvmergePath, m.logger)
	}
	if m.runner == nil {
		m.runner = command.NewExecRunner()
	}
	if m.languages == nil {
		m.languages = language.Default()
	}
	return m
}

// NewFromFile creates a MergeBuilder holding every track of the file at path,
// in identification order. When title is empty the file's embedded title, if
// any, is used.
//
// Example:
//
//	mkv, err := merge.NewFromFile(ctx, "movie.mkv", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(mkv.Title(), mkv.Len())
func NewFromFile(ctx context.Context, path, title string, opts ...Option) (*MergeBuilder, error) {
	m := New(opts...)
	if err := m.importFile(ctx, path, title); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MergeBuilder) importFile(ctx context.Context, path, title string) error {
	path = expandHome(path)
	result, err := m.prober.Identify(ctx, path)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if title == "" {
		title = result.Title()
	}
	m.sourcePath = path
	m.title = title
	m.tracks = result.ModelTracks(path)

	m.logger.Debug("imported file",
		zap.String("path", path),
		zap.Int("tracks", len(m.tracks)),
		zap.String("title", m.title),
	)
	return nil
}

// SourcePath returns the file the builder was imported from, or "".
func (m *MergeBuilder) SourcePath() string {
	return m.sourcePath
}

// MkvmergePath returns the mkvmerge binary the builder invokes.
func (m *MergeBuilder) MkvmergePath() string {
	return m.mkvmergePath
}

// Title returns the output title.
func (m *MergeBuilder) Title() string {
	return m.title
}

// SetTitle sets the output title. An empty title omits the --title flag.
func (m *MergeBuilder) SetTitle(title string) *MergeBuilder {
	m.title = title
	return m
}

// ChaptersFile returns the chapters file, or "" if none is attached.
func (m *MergeBuilder) ChaptersFile() string {
	return m.chaptersFile
}

// ChapterLanguage returns the chapter language, or "" if none is set.
func (m *MergeBuilder) ChapterLanguage() string {
	return m.chapterLanguage
}

// AddChapters attaches a chapters file. The file must exist. When language is
// not empty it must be an ISO639-2 code; it only takes effect for chapters
// that carry no language of their own. Nothing is stored unless both checks
// pass.
func (m *MergeBuilder) AddChapters(path, language string) error {
	path = expandHome(path)
	if err := requireFile(path); err != nil {
		return err
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language != "" {
		if err := m.languages.Validate(language); err != nil {
			return err
		}
	}

	m.chaptersFile = path
	m.chapterLanguage = language
	return nil
}

// ExcludeInternalChapters stops the chapters embedded in every current source
// track's file from being copied to the output.
func (m *MergeBuilder) ExcludeInternalChapters() {
	for i := range m.tracks {
		m.tracks[i].ExcludeChapters = true
	}
}

// Split returns the active split directive, or nil.
func (m *MergeBuilder) Split() split.Directive {
	return m.split
}

// SplitSize splits the output into files of at most size bytes.
func (m *MergeBuilder) SplitSize(size split.SizeValue) error {
	return m.setSplit(split.BySize(size))
}

// SplitDuration splits the output into files of the given duration.
func (m *MergeBuilder) SplitDuration(duration timeutil.Timestamp) error {
	return m.setSplit(split.ByDuration(duration))
}

// SplitTimestamps splits the output at the given timestamps. Nested lists are
// flattened.
func (m *MergeBuilder) SplitTimestamps(items ...timeutil.Item) error {
	return m.setSplit(split.ByTimestamps(items...))
}

// SplitParts keeps only the given ranges of the source.
func (m *MergeBuilder) SplitParts(parts []split.Part) error {
	return m.setSplit(split.ByParts(parts))
}

// ClearSplit removes any split directive.
func (m *MergeBuilder) ClearSplit() {
	m.split = nil
}

// setSplit replaces the active directive when d is valid; a failed call leaves
// the previous directive in place.
func (m *MergeBuilder) setSplit(d split.Directive, err error) error {
	if err != nil {
		return err
	}
	m.split = d
	return nil
}

// BuildArgs constructs the mkvmerge arguments for writing outputPath.
//
// Per track, in collection order: name, language, default flag (only when the
// track is not default), forced flag (only when forced), the stream selection
// that keeps this track's id and drops the other kinds from its file, chapter
// exclusion, then the source path. Chapter options and the split directive
// follow the tracks.
func (m *MergeBuilder) BuildArgs(outputPath string) []string {
	args := []string{"-o", expandHome(outputPath)}
	if m.title != "" {
		args = append(args, "--title", m.title)
	}

	for _, t := range m.tracks {
		id := strconv.Itoa(t.TrackID)

		if t.Name != "" {
			args = append(args, "--track-name", id+":"+t.Name)
		}
		if t.Language != "" {
			args = append(args, "--language", id+":"+t.Language)
		}
		if !t.Default {
			args = append(args, "--default-track", id+":0")
		}
		if t.Forced {
			args = append(args, "--forced-track", id+":1")
		}

		if t.IsType(models.TrackTypeVideo) {
			args = append(args, "-d", id)
		} else {
			args = append(args, "-D")
		}
		if t.IsType(models.TrackTypeAudio) {
			args = append(args, "-a", id)
		} else {
			args = append(args, "-A")
		}
		if t.IsType(models.TrackTypeSubtitles) {
			args = append(args, "-s", id)
		} else {
			args = append(args, "-S")
		}

		if t.ExcludeChapters {
			args = append(args, "--no-chapters")
		}
		args = append(args, t.SourcePath)
	}

	if m.chapterLanguage != "" {
		args = append(args, "--chapter-language", m.chapterLanguage)
	}
	if m.chaptersFile != "" {
		args = append(args, "--chapters", m.chaptersFile)
	}
	if m.split != nil {
		args = append(args, m.split.Args()...)
	}
	return args
}

// CommandArgs returns the full command as tokens, binary first.
func (m *MergeBuilder) CommandArgs(outputPath string) []string {
	return append([]string{m.mkvmergePath}, m.BuildArgs(outputPath)...)
}

// CommandLine returns the full command as one shell-joined string.
func (m *MergeBuilder) CommandLine(outputPath string) string {
	return command.JoinArgs(m.CommandArgs(outputPath))
}

// DryRun returns the command line without executing it.
func (m *MergeBuilder) DryRun(outputPath string) string {
	return m.CommandLine(outputPath)
}
