package cmd

import (
	"github.com/spf13/cobra"

	"tifpng/internal/pipeline"
	"tifpng/internal/vault"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "convert <note>",
		Short:         "Convert the TIFF embeds of a note to PNG and relink them",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0])
		},
	}
}

func runConvert(cmd *cobra.Command, note string) error {
	return runOnNote(cmd, note, "Converting", func(cmd *cobra.Command, svc *pipeline.Service, n *vault.Note) (pipeline.Report, error) {
		return svc.Convert(cmd.Context(), n, n.Path())
	})
}
