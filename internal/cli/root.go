package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it with args. Log output goes to
// stderr, or the file given by --log, at info level or debug level with
// --verbose. Status lines always go to stderr.
//
// The logger is attached to the command context and reachable from every
// command via loggerFromContext.
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx, os.Args[1:]); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context, args []string) error {
	var (
		verbose bool
		logPath string
		logFile *os.File
	)

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&logPath, "log", "l", "", "append log output to this file instead of stderr")
	_ = root.MarkPersistentFlagFilename("log")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		if logPath != "" {
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			logFile = f
			c.Logger.SetOutput(f)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	err := root.ExecuteContext(ctx)
	if logFile != nil {
		logFile.Close()
	}
	return err
}
