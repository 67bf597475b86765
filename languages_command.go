package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mkvmux/internal/language"
)

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "languages [CODE...]",
		Short: "List or check ISO639-2 language codes",
		Long: `Without arguments, list every code accepted for --chapter-language.
With arguments, check each code and fail if any is unknown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := ctx.languages()
			out := cmd.OutOrStdout()
			style := ctx.configValue().TableStyle
			tty := isTerminal(out)

			if len(args) == 0 {
				codes, err := list.Codes()
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(codes))
				for _, code := range codes {
					rows = append(rows, []string{code, language.DisplayName(code)})
				}
				fmt.Fprintln(out, renderTable([]string{"Code", "Language"}, rows, nil, style, tty))
				return nil
			}

			rows := make([][]string, 0, len(args))
			unknown := 0
			for _, code := range args {
				ok, err := list.Contains(code)
				if err != nil {
					return err
				}
				name := "-"
				if ok {
					name = language.DisplayName(code)
				} else {
					unknown++
				}
				rows = append(rows, []string{code, yesNo(ok), name})
			}
			fmt.Fprintln(out, renderTable([]string{"Code", "Valid", "Language"}, rows, nil, style, tty))

			if unknown > 0 {
				return fmt.Errorf("%d of %d codes are not in %s", unknown, len(args), list.Source())
			}
			return nil
		},
	}
}
