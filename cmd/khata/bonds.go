package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/sebuszqo/khata/internal/bonds/bondset"
	"github.com/spf13/cobra"
)

func bondsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bonds",
		Short: "Parse and format bond number sets",
	}

	cmd.AddCommand(bondsParseCmd())
	cmd.AddCommand(bondsFormatCmd())

	return cmd
}

func bondsParseCmd() *cobra.Command {
	var list, from, to string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the canonical set described by a list and/or range",
		Long: `Validate bond input the same way the bond form does and print the
resulting numbers in ascending order.

Examples:
  khata bonds parse --list "5, 3, 3"
  khata bonds parse --list 1,3 --from 10 --to 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			numbers, err := bondset.Parse(bondset.Input{List: list, RangeStart: from, RangeEnd: to})
			if err != nil {
				var parseErr *bondset.Error
				if errors.As(err, &parseErr) {
					return fmt.Errorf("%w (%s)", parseErr.Kind, parseErr.Error())
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bondset.Join(numbers, ","))
			return nil
		},
	}

	cmd.Flags().StringVar(&list, "list", "", "comma-separated bond numbers")
	cmd.Flags().StringVar(&from, "from", "", "first number of a range")
	cmd.Flags().StringVar(&to, "to", "", "last number of a range")

	return cmd
}

func bondsFormatCmd() *cobra.Command {
	var chips bool

	cmd := &cobra.Command{
		Use:   "format NUMBER...",
		Short: "Print numbers in compact range notation",
		Long: `Render bond numbers the way the registry displays them: runs of five or
more consecutive numbers collapse to start-end.

With --chips every number is printed, highlighted when it belongs to such a run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers := make([]int64, 0, len(args))
			for _, arg := range args {
				for _, tok := range strings.Split(arg, ",") {
					tok = strings.TrimSpace(tok)
					if tok == "" {
						continue
					}
					n, err := strconv.ParseInt(tok, 10, 64)
					if err != nil {
						return fmt.Errorf("invalid bond number %q", tok)
					}
					numbers = append(numbers, n)
				}
			}

			if !chips {
				fmt.Fprintln(cmd.OutOrStdout(), bondset.Format(numbers))
				return nil
			}

			inRun := color.New(color.FgGreen, color.Bold)
			parts := make([]string, 0, len(numbers))
			for _, chip := range bondset.Chips(numbers) {
				text := strconv.FormatInt(chip.Number, 10)
				if chip.InRange {
					text = inRun.Sprint(text)
				}
				parts = append(parts, text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&chips, "chips", false, "print every number, highlighting members of long runs")

	return cmd
}
