// cmd/twig/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"twig/internal/config"
	"twig/internal/errors"
	"twig/internal/logging"
	"twig/internal/repo"
	"twig/internal/workspace"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	logger  = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "twig",
	Short: "Twig is a small local version control system",
	Long: `Twig tracks snapshots of a working directory as an immutable commit graph,
with branches, three-way merges and conflict files.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return errors.ErrUnknownCommand
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.ErrNoCommand
	},
}

// setupLogger builds the logger from the repository config when there is
// one. --verbose wins over both the config and TWIG_LOG_LEVEL.
func setupLogger(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfgPath := filepath.Join(cwd, workspace.MetaDir, config.FileName)
	if root, err := workspace.FindRoot(cwd); err == nil {
		cfgPath = filepath.Join(root, workspace.MetaDir, config.FileName)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	l, err := logging.NewLogger(level)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger = l
	return nil
}

// openRepo opens the repository containing the current directory.
func openRepo(cmd *cobra.Command) (*repo.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	return repo.Open(cwd, repo.Options{Logger: logger.WithOperation(cmd.Name())})
}

// withRepo runs fn against the open repository and closes it afterwards.
func withRepo(fn func(cmd *cobra.Command, args []string, r *repo.Repository) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepo(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := r.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing repository: %w", cerr)
			}
		}()
		return fn(cmd, args, r)
	}
}

// operands rejects any argument count other than n.
func operands(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.ErrIncorrectOperands
		}
		return nil
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		logger.Debug("flag error", zap.String("command", cmd.Name()), zap.Error(err))
		return errors.ErrIncorrectOperands
	})
}

// exitCode reports err the way the command line expects: user errors are
// ordinary output, everything else is a failure.
func exitCode(err error, out, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.IsUser(err) {
		fmt.Fprintln(out, errors.Message(err))
		return 0
	}
	fmt.Fprintln(errOut, "twig:", err)
	return 1
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Debug("command failed", zap.Error(err))
	}
	logger.Sync()
	os.Exit(exitCode(err, os.Stdout, os.Stderr))
}
