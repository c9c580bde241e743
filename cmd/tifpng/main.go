package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tifpng/internal/cli/cmd"
	"tifpng/internal/dirs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	os.Exit(run(ctx, stop))
}

// run executes the CLI and maps its error to an exit code.
func run(ctx context.Context, stop context.CancelFunc) int {
	defer stop()

	err := cmd.Execute(ctx)
	if err == nil {
		return cmd.ExitOK
	}
	code := cmd.ExitCLIError
	var ee *cmd.ExitError
	if errors.As(err, &ee) {
		code = ee.Code
		err = ee.Err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", dirs.AppName(), err)
	}
	return code
}
