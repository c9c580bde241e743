package cmd

import (
	"github.com/spf13/cobra"

	"tifpng/internal/pipeline"
)

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every *.tif.png / *.tiff.png file in the vault",
		Long: "purge deletes every PNG copy of a TIFF in the vault after asking once. " +
			"Notes are not edited, so embeds of the deleted copies will break; run remove on them first.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnVault(cmd, "Purging PNG copies", func(svc *pipeline.Service) (pipeline.Report, error) {
				return svc.Purge(cmd.Context())
			})
		},
	}
}
