package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mkvmux/internal/language"
	"mkvmux/internal/timeutil"
	"mkvmux/mkvprobe"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info FILE...",
		Short: "Identify files and list their tracks",
		Long: `Identify each file with "mkvmerge -J" and list its tracks in the order
mkvmux would import them. The Index column is the position used by the
merge command's --drop and --swap flags.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			results, err := mkvprobe.IdentifyAll(cmd.Context(), ctx.probeClient(), args, cfg.ProbeConcurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			tty := isTerminal(out)
			for i, result := range results {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printResult(out, args[i], result, cfg.TableStyle, tty)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw identification results as JSON")
	return cmd
}

func printResult(out io.Writer, path string, result *mkvprobe.Result, style string, tty bool) {
	fmt.Fprintln(out, path)

	container := result.Container.Type
	if info, err := os.Stat(path); err == nil {
		container = fmt.Sprintf("%s (%s)", container, humanize.Bytes(uint64(info.Size())))
	}
	fmt.Fprintf(out, "  Container:   %s\n", container)
	if title := result.Title(); title != "" {
		fmt.Fprintf(out, "  Title:       %s\n", title)
	}
	if result.Container.Properties.Duration > 0 {
		fmt.Fprintf(out, "  Duration:    %s\n", timeutil.FormatSeconds(result.DurationSeconds()))
	}
	fmt.Fprintf(out, "  Chapters:    %d\n", result.ChapterCount())
	if len(result.Attachments) > 0 {
		var total int64
		for _, a := range result.Attachments {
			total += a.Size
		}
		fmt.Fprintf(out, "  Attachments: %d (%s)\n", len(result.Attachments), humanize.Bytes(uint64(total)))
	}

	tracks := result.ModelTracks(path)
	rows := make([][]string, 0, len(tracks))
	for i, t := range tracks {
		lang := t.Language
		if lang != "" {
			lang = fmt.Sprintf("%s (%s)", lang, language.DisplayName(lang))
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(t.TrackID),
			t.Type.String(),
			result.Tracks[i].Codec,
			lang,
			t.Name,
			yesNo(t.Default),
			yesNo(t.Forced),
		})
	}

	headers := []string{"Index", "ID", "Type", "Codec", "Language", "Name", "Default", "Forced"}
	aligns := []columnAlignment{alignRight, alignRight}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, style, tty))
}
