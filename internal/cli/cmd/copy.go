package cmd

import (
	"github.com/spf13/cobra"

	"tifpng/internal/pipeline"
)

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "copy <file.tif>...",
		Short:         "Write a PNG copy next to each TIFF file without editing any note",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			paths := make([]string, 0, len(args))
			for _, a := range args {
				p, err := vaultRelative(opts.Vault, a)
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
				paths = append(paths, p)
			}
			return runOnVault(cmd, "Creating PNG copies", func(svc *pipeline.Service) (pipeline.Report, error) {
				return svc.CopyFiles(cmd.Context(), paths)
			})
		},
	}
}
