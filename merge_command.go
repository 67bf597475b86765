package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ansel1/merry/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mkvmux/command/merge"
	"mkvmux/command/split"
	"mkvmux/mkvprobe"
	"mkvmux/models"
)

type mergeOptions struct {
	output          string
	title           string
	tracks          []string
	names           []string
	drop            []int
	swap            []string
	chapters        string
	chapterLanguage string
	excludeChapters bool

	splitSize       string
	splitDuration   string
	splitTimestamps string
	splitParts      string

	dryRun bool
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var opts mergeOptions

	cmd := &cobra.Command{
		Use:   "merge [FILE...] -o OUTPUT",
		Short: "Combine tracks from one or more files into a Matroska file",
		Long: `Import every track of each FILE, in order, plus any single tracks given
with --track, then write OUTPUT with mkvmerge. The first FILE provides the
default title.

Track edits are applied in this order: --drop, --swap, --name. Indices
refer to positions in the track list as shown by "mkvmux info".`,
		Example: `  mkvmux merge movie.mkv --track commentary.mka:0 -o out.mkv
  mkvmux merge movie.mkv --drop 2 --swap 1:2 --name 1=English -o out.mkv
  mkvmux merge movie.mkv --chapters chapters.xml --chapter-language eng -o out.mkv
  mkvmux merge movie.mkv --split-size 4GB -o out.mkv --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(opts.tracks) == 0 {
				return fmt.Errorf("nothing to merge: give at least one FILE or --track")
			}

			mkv, err := buildMerge(cmd, ctx, args, &opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.dryRun {
				fmt.Fprintln(out, mkv.CommandLine(opts.output))
				return nil
			}

			result, err := mkv.Mux(cmd.Context(), opts.output, ctx.configValue().Silent)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✅ Wrote %s in %s\n", result.OutputPath, result.Duration.Round(10*time.Millisecond))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output file (required)")
	flags.StringVarP(&opts.title, "title", "t", "", "Output title (default: title of the first FILE)")
	flags.StringArrayVar(&opts.tracks, "track", nil, "Add a single track as PATH:ID (repeatable)")
	flags.StringArrayVar(&opts.names, "name", nil, "Rename a track as INDEX=NAME (repeatable)")
	flags.IntSliceVar(&opts.drop, "drop", nil, "Remove tracks by index")
	flags.StringArrayVar(&opts.swap, "swap", nil, "Swap two tracks as I:J (repeatable)")
	flags.StringVar(&opts.chapters, "chapters", "", "Chapters file to attach")
	flags.StringVar(&opts.chapterLanguage, "chapter-language", "", "ISO639-2 language for chapters without one")
	flags.BoolVar(&opts.excludeChapters, "exclude-chapters", false, "Do not copy chapters embedded in the sources")
	flags.StringVar(&opts.splitSize, "split-size", "", "Split into files of at most SIZE, e.g. 700000000 or 4GB")
	flags.StringVar(&opts.splitDuration, "split-duration", "", "Split into files of DURATION, e.g. 01:30:00 or 5400")
	flags.StringVar(&opts.splitTimestamps, "split-timestamps", "", "Split at comma-separated timestamps")
	flags.StringVar(&opts.splitParts, "split-parts", "", "Keep comma-separated START-END ranges; +START appends to the previous part")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the mkvmerge command instead of running it")

	_ = cmd.MarkFlagRequired("output")
	cmd.MarkFlagsMutuallyExclusive("split-size", "split-duration", "split-timestamps", "split-parts")

	return cmd
}

func buildMerge(cmd *cobra.Command, ctx *commandContext, inputs []string, opts *mergeOptions) (*merge.MergeBuilder, error) {
	goCtx := cmd.Context()
	cfg := ctx.configValue()
	logger := ctx.loggerValue()
	builderOpts := ctx.builderOptions(cmd.OutOrStdout(), cmd.ErrOrStderr())

	sources := make([]models.PathSource, 0, len(opts.tracks))
	for _, spec := range opts.tracks {
		src, err := parseTrackSpec(spec)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	// Identify everything up front and in parallel; imports below hit the cache
	if _, cached := ctx.probeClient().(*mkvprobe.CachedProber); cached {
		paths := append(slices.Clone(inputs), lo.Map(sources, func(s models.PathSource, _ int) string { return s.Path })...)
		paths = lo.Uniq(paths)
		logger.Debug("identifying sources", zap.Strings("paths", paths))
		if _, err := mkvprobe.IdentifyAll(goCtx, ctx.probeClient(), paths, cfg.ProbeConcurrency); err != nil {
			return nil, err
		}
	}

	var mkv *merge.MergeBuilder
	if len(inputs) > 0 {
		var err error
		if mkv, err = merge.NewFromFile(goCtx, inputs[0], opts.title, builderOpts...); err != nil {
			return nil, err
		}
		for _, path := range inputs[1:] {
			if err := mkv.AddFile(goCtx, merge.FilePath(path)); err != nil {
				return nil, err
			}
		}
	} else {
		mkv = merge.New(builderOpts...)
		mkv.SetTitle(opts.title)
	}

	for _, src := range sources {
		if err := mkv.AddTrack(goCtx, src, ""); err != nil {
			return nil, err
		}
	}

	if err := applyTrackEdits(mkv, opts); err != nil {
		return nil, err
	}

	if opts.excludeChapters {
		mkv.ExcludeInternalChapters()
	}
	if opts.chapters != "" || opts.chapterLanguage != "" {
		if opts.chapters == "" {
			return nil, fmt.Errorf("--chapter-language requires --chapters")
		}
		if err := mkv.AddChapters(opts.chapters, opts.chapterLanguage); err != nil {
			return nil, err
		}
	}

	if err := applySplit(mkv, opts); err != nil {
		return nil, err
	}
	return mkv, nil
}

// parseTrackSpec reads PATH:ID. The id follows the last colon so paths may
// contain colons themselves.
func parseTrackSpec(spec string) (models.PathSource, error) {
	i := strings.LastIndex(spec, ":")
	if i <= 0 {
		return models.PathSource{}, merry.Wrap(models.ErrInvalidArgument, merry.WithMessagef("track %q is not PATH:ID", spec))
	}
	id, err := strconv.Atoi(spec[i+1:])
	if err != nil || id < 0 {
		return models.PathSource{}, merry.Wrap(models.ErrInvalidArgument, merry.WithMessagef("track %q has no valid id", spec))
	}
	return models.PathSource{Path: spec[:i], TrackID: id}, nil
}

func applyTrackEdits(mkv *merge.MergeBuilder, opts *mergeOptions) error {
	// Highest index first so earlier removals do not shift later ones
	drop := lo.Uniq(opts.drop)
	slices.Sort(drop)
	slices.Reverse(drop)
	for _, index := range drop {
		if err := mkv.RemoveTrack(index); err != nil {
			return err
		}
	}

	for _, spec := range opts.swap {
		a, b, ok := strings.Cut(spec, ":")
		i, errA := strconv.Atoi(a)
		j, errB := strconv.Atoi(b)
		if !ok || errA != nil || errB != nil {
			return merry.Wrap(models.ErrInvalidArgument, merry.WithMessagef("swap %q is not I:J", spec))
		}
		if err := mkv.SwapTracks(i, j); err != nil {
			return err
		}
	}

	for _, spec := range opts.names {
		a, name, ok := strings.Cut(spec, "=")
		index, err := strconv.Atoi(a)
		if !ok || err != nil {
			return merry.Wrap(models.ErrInvalidArgument, merry.WithMessagef("name %q is not INDEX=NAME", spec))
		}
		track, err := mkv.Track(index)
		if err != nil {
			return err
		}
		track.Name = name
		if err := mkv.ReplaceTrack(index, track); err != nil {
			return err
		}
	}
	return nil
}

func applySplit(mkv *merge.MergeBuilder, opts *mergeOptions) error {
	switch {
	case opts.splitSize != "":
		return mkv.SplitSize(split.ParseSize(opts.splitSize))
	case opts.splitDuration != "":
		return mkv.SplitDuration(split.ParseDuration(opts.splitDuration))
	case opts.splitTimestamps != "":
		return mkv.SplitTimestamps(split.ParseTimestamps(opts.splitTimestamps)...)
	case opts.splitParts != "":
		parts, err := split.ParseParts(opts.splitParts)
		if err != nil {
			return err
		}
		return mkv.SplitParts(parts)
	}
	return nil
}
