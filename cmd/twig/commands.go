// cmd/twig/commands.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"twig/internal/errors"
	"twig/internal/repo"
	"twig/internal/watch"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	var initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a repository in the current directory",
		Args:  operands(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			r, err := repo.Init(cwd, repo.Options{Logger: logger.WithOperation(cmd.Name())})
			if err != nil {
				return err
			}
			return r.Close()
		},
	}

	var addCmd = &cobra.Command{
		Use:   "add <file>",
		Short: "Stage a file for the next commit",
		Args:  operands(1),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			return r.Add(args[0])
		}),
	}

	var commitCmd = &cobra.Command{
		Use:   "commit <message>",
		Short: "Record the staged changes",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.ErrIncorrectOperands
			}
			return nil
		},
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			message := ""
			if len(args) == 1 {
				message = args[0]
			}
			_, err := r.Commit(message)
			return err
		}),
	}

	var rmCmd = &cobra.Command{
		Use:   "rm <file>",
		Short: "Unstage a file, or stage its removal if it is tracked",
		Args:  operands(1),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			return r.Remove(args[0])
		}),
	}

	var logCmd = &cobra.Command{
		Use:   "log",
		Short: "Show the current branch's history",
		Args:  operands(0),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			entries, err := r.Log()
			if err != nil {
				return err
			}
			printLog(cmd.OutOrStdout(), entries)
			return nil
		}),
	}

	var globalLogCmd = &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made",
		Args:  operands(0),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			entries, err := r.GlobalLog()
			if err != nil {
				return err
			}
			printLog(cmd.OutOrStdout(), entries)
			return nil
		}),
	}

	var findCmd = &cobra.Command{
		Use:   "find <message>",
		Short: "Print the ids of commits with the given message",
		Args:  operands(1),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			ids, err := r.Find(args[0])
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		}),
	}

	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show branches, staged files and working-directory changes",
		Args:  operands(0),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			render := func() error {
				st, err := r.Status()
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), st)
				return nil
			}
			if err := render(); err != nil {
				return err
			}

			watching, _ := cmd.Flags().GetBool("watch")
			if !watching {
				return nil
			}
			return watchStatus(cmd, r, render)
		}),
	}
	statusCmd.Flags().BoolP("watch", "w", false, "re-print status whenever the working directory changes")

	var checkoutCmd = &cobra.Command{
		Use:   "checkout <branch> | -- <file> | <commit> -- <file>",
		Short: "Switch branches or restore a file",
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			dash := cmd.ArgsLenAtDash()
			switch {
			case dash == -1 && len(args) == 1:
				return r.CheckoutBranch(args[0])
			case dash == 0 && len(args) == 1:
				return r.CheckoutFile("HEAD", args[0])
			case dash == 1 && len(args) == 2:
				return r.CheckoutFile(args[0], args[1])
			default:
				return errors.ErrIncorrectOperands
			}
		}),
	}

	var branchCmd = &cobra.Command{
		Use:   "branch <name>",
		Short: "Create a branch at the current commit",
		Args:  operands(1),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			return r.Branch(args[0])
		}),
	}

	var rmBranchCmd = &cobra.Command{
		Use:   "rm-branch <name>",
		Short: "Delete a branch pointer",
		Args:  operands(1),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			return r.RemoveBranch(args[0])
		}),
	}

	var resetCmd = &cobra.Command{
		Use:   "reset <commit>",
		Short: "Move the current branch to a commit and check it out",
		Args:  operands(1),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			return r.Reset(args[0])
		}),
	}

	var mergeCmd = &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Args:  operands(1),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			result, err := r.Merge(args[0])
			if err != nil {
				return err
			}
			printMerge(cmd.OutOrStdout(), result)
			return nil
		}),
	}

	var diffCmd = &cobra.Command{
		Use:   "diff [file...]",
		Short: "Show working-directory changes against the head commit",
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			diffs, err := r.Diff(args...)
			if err != nil {
				return err
			}
			printDiffs(cmd.OutOrStdout(), diffs)
			return nil
		}),
	}

	var verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Re-hash every stored object and check reachable commits",
		Args:  operands(0),
		RunE: withRepo(func(cmd *cobra.Command, args []string, r *repo.Repository) error {
			report, err := r.Verify()
			if err != nil {
				return err
			}
			printVerify(cmd.OutOrStdout(), report)
			if !report.OK() {
				return fmt.Errorf("%d integrity problem(s) found", len(report.Problems))
			}
			return nil
		}),
	}

	rootCmd.AddCommand(initCmd, addCmd, commitCmd, rmCmd, logCmd, globalLogCmd, findCmd,
		statusCmd, checkoutCmd, branchCmd, rmBranchCmd, resetCmd, mergeCmd, diffCmd, verifyCmd)
}

// watchStatus re-renders until interrupted.
func watchStatus(cmd *cobra.Command, r *repo.Repository, render func() error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(r.Root, watch.DefaultDebounce, logger.WithOperation("watch"))
	if err != nil {
		return err
	}
	defer w.Close()

	faint := color.New(color.Faint)
	faint.Fprintln(cmd.OutOrStdout(), "watching for changes, ctrl-c to stop")

	err = w.Run(ctx, func() error {
		faint.Fprintln(cmd.OutOrStdout(), "---")
		return render()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
