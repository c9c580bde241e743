package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tifpng/internal/config"
	"tifpng/internal/dirs"
	"tifpng/internal/links"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Show the effective configuration and check the vault",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			opts, err := loadOptions()
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}

			used := config.Used()
			if used == "" {
				used = "(none)"
			}
			fmt.Fprintf(out, "Config file:  %s\n", used)
			if files, err := dirs.ConfigFiles(); err == nil && config.Used() == "" {
				for _, f := range files {
					fmt.Fprintf(out, "              %s\n", faint(f))
				}
			}
			fmt.Fprintf(out, "Terminal UI:  %v\n", !opts.NoUI && term.IsTerminal(int(os.Stdout.Fd())))
			fmt.Fprintf(out, "Jobs:         %s\n", jobsLabel(opts.Jobs))

			st, err := openVault(opts)
			if err != nil {
				return err
			}
			all, err := st.ListAll()
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			var tiffs, copies int
			for _, p := range all {
				switch {
				case links.IsSourcePath(p):
					tiffs++
				case links.IsDerivativePath(p):
					copies++
				}
			}
			fmt.Fprintf(out, "Vault:        %s\n", opts.Vault)
			fmt.Fprintf(out, "TIFF files:   %d\n", tiffs)
			fmt.Fprintf(out, "PNG copies:   %d\n", copies)
			return nil
		},
	}
}

func jobsLabel(n int) string {
	if n == 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}
