package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tifpng/internal/config"
	"tifpng/internal/dirs"
)

const (
	ExitOK             = 0
	ExitCLIError       = 1
	ExitNoDocument     = 2
	ExitPartialFailure = 3
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   dirs.AppName() + " [note]",
		Short: "Convert TIFF embeds in Markdown notes to PNG",
		Long: dirs.AppName() + " finds ![[image.tif]] embeds in a note, writes a PNG copy next to each TIFF " +
			"(image.tif.png) and points the embed at the copy. Without a subcommand it converts the given note.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runConvert(cmd, args[0])
		},
	}

	bindPersistentFlags(root.PersistentFlags())

	root.AddCommand(newConvertCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newRestoreCmd())
	root.AddCommand(newPurgeCmd())
	root.AddCommand(newCopyCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// bindPersistentFlags declares the flags shared by every subcommand. Each
// one is bound to a viper key by config.Init.
func bindPersistentFlags(pf *pflag.FlagSet) {
	pf.StringP("vault", "V", ".", "Vault root directory")
	pf.BoolP("verbose", "v", false, "Log every step of every embed")
	pf.Int("jobs", 0, "Max embeds processed at once (0 = no limit)")
	pf.Bool("no-ui", false, "Disable TUI; use plain textual output")
	pf.BoolP("yes", "y", false, "Answer yes to every question")
	pf.Bool("confirm-overwrite", false, "Ask before replacing an existing PNG copy")
	pf.Bool("silent", false, "Print nothing when a note has no TIFF embeds")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	if err := config.Init(root); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	return root.ExecuteContext(ctx)
}
