package cmd

import (
	"github.com/spf13/cobra"

	"tifpng/internal/pipeline"
	"tifpng/internal/vault"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "remove <note>",
		Short:         "Point PNG embeds of a note back at the TIFFs and delete the PNG copies",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnNote(cmd, args[0], "Removing PNG copies in", func(cmd *cobra.Command, svc *pipeline.Service, n *vault.Note) (pipeline.Report, error) {
				return svc.Remove(cmd.Context(), n, n.Path(), pipeline.RemoveOptions{})
			})
		},
	}
}
