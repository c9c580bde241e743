package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tifpng/internal/model"
	"tifpng/internal/pipeline"
	"tifpng/internal/progress"
	"tifpng/internal/ui"
	"tifpng/internal/vault"
)

// noteOp is a pipeline run over one note.
type noteOp func(cmd *cobra.Command, svc *pipeline.Service, note *vault.Note) (pipeline.Report, error)

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func openVault(opts model.Options) (*vault.Store, error) {
	st, err := vault.OpenDir(opts.Vault)
	if err != nil {
		return nil, &ExitError{Code: ExitCLIError, Err: err}
	}
	return st, nil
}

// runOnNote loads the note named by arg, runs op on it, writes the note
// back when it changed and prints the report.
func runOnNote(cmd *cobra.Command, arg, title string, op noteOp) error {
	opts, err := loadOptions()
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	st, err := openVault(opts)
	if err != nil {
		return err
	}
	rel, err := vaultRelative(opts.Vault, arg)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	if ok, err := st.Exists(rel); err != nil || !ok {
		return &ExitError{Code: ExitNoDocument, Err: fmt.Errorf("%w: %s", pipeline.ErrNoDocument, arg)}
	}
	note, err := vault.LoadNote(st, rel)
	if err != nil {
		return &ExitError{Code: ExitNoDocument, Err: fmt.Errorf("%w: %w", pipeline.ErrNoDocument, err)}
	}

	rep, runErr := execute(cmd, opts, title+" "+rel, func(rp progress.Reporter, c pipeline.Confirmer) (pipeline.Report, error) {
		return op(cmd, newService(st, opts, rp, c), note)
	})
	// Edits made before a failure are kept.
	if serr := note.Save(st); serr != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("save %s: %w", rel, serr)}
	}
	return finish(cmd, opts, rep, runErr)
}

// runOnVault runs a pipeline operation that needs no note.
func runOnVault(cmd *cobra.Command, title string, op func(svc *pipeline.Service) (pipeline.Report, error)) error {
	opts, err := loadOptions()
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	st, err := openVault(opts)
	if err != nil {
		return err
	}
	rep, runErr := execute(cmd, opts, title, func(rp progress.Reporter, c pipeline.Confirmer) (pipeline.Report, error) {
		return op(newService(st, opts, rp, c))
	})
	return finish(cmd, opts, rep, runErr)
}

func newService(st vault.FileStore, opts model.Options, rp progress.Reporter, c pipeline.Confirmer) *pipeline.Service {
	if opts.AssumeYes {
		c = assumeYes
	}
	return pipeline.NewService(
		pipeline.WithStore(st),
		pipeline.WithOptions(opts),
		pipeline.WithReporter(rp),
		pipeline.WithConfirmer(c),
	)
}

// execute runs task under the TUI when stdout is a terminal, plain otherwise.
func execute(cmd *cobra.Command, opts model.Options, title string, task ui.Task) (pipeline.Report, error) {
	if !opts.NoUI && isTerminal() {
		return ui.Run(cmd.Context(), title, opts, task)
	}
	rp := newPlainReporter(cmd.ErrOrStderr(), opts.Verbose)
	var c pipeline.Confirmer
	if term.IsTerminal(int(os.Stdin.Fd())) {
		c = newPromptConfirmer(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr())
	}
	return task(rp, c)
}

// finish prints the report and maps it to an exit code.
func finish(cmd *cobra.Command, opts model.Options, rep pipeline.Report, runErr error) error {
	if runErr != nil {
		if errors.Is(runErr, pipeline.ErrNoDocument) {
			return &ExitError{Code: ExitNoDocument, Err: runErr}
		}
		return &ExitError{Code: ExitCLIError, Err: runErr}
	}
	printReport(cmd.OutOrStdout(), opts, rep)
	if !rep.OK() {
		return &ExitError{Code: ExitPartialFailure}
	}
	return nil
}
