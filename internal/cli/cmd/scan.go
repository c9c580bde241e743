package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tifpng/internal/pipeline"
	"tifpng/internal/util/format"
	"tifpng/internal/vault"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "scan <note>",
		Short:         "Show what convert would do, without changing anything",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			st, err := openVault(opts)
			if err != nil {
				return err
			}
			rel, err := vaultRelative(opts.Vault, args[0])
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			note, err := vault.LoadNote(st, rel)
			if err != nil {
				return &ExitError{Code: ExitNoDocument, Err: fmt.Errorf("%w: %w", pipeline.ErrNoDocument, err)}
			}

			items, err := pipeline.NewService(pipeline.WithStore(st)).Plan(note, rel)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			printPlan(cmd, rel, items)
			return nil
		},
	}
}

// printPlan lists every TIFF embed with the file it resolves to.
func printPlan(cmd *cobra.Command, note string, items []pipeline.PlanItem) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", bold(note), format.Plural(len(items), "TIFF embed"))
	for i, it := range items {
		fmt.Fprintf(out, "%3d. line %-4d %s\n", i+1, it.Ref.Line+1, it.Ref.Raw)
		switch {
		case it.Err != nil:
			fmt.Fprintf(out, "     %s\n", red(it.Err.Error()))
		case it.Exists:
			fmt.Fprintf(out, "     %s → %s %s\n", it.Source, it.Derivative, color.YellowString("(exists, will be replaced)"))
		default:
			fmt.Fprintf(out, "     %s → %s\n", it.Source, it.Derivative)
		}
	}
}
