// cmd/twig/output.go
package main

import (
	"fmt"
	"io"
	"time"

	"twig/internal/commit"
	"twig/internal/repo"
	"twig/shared/utils"

	"github.com/fatih/color"
)

// logDateFormat is how commit dates are printed, in local time.
const logDateFormat = "Mon Jan 2 15:04:05 2006 -0700"

var (
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

func printLog(w io.Writer, entries []commit.Entry) {
	for _, e := range entries {
		fmt.Fprintln(w, "===")
		yellow.Fprintf(w, "commit %s\n", e.ID)
		if e.SecondParent != "" {
			fmt.Fprintf(w, "Merge: %s %s\n", utils.ShortID(e.Parent), utils.ShortID(e.SecondParent))
		}
		fmt.Fprintf(w, "Date: %s\n", e.Timestamp.In(time.Local).Format(logDateFormat))
		fmt.Fprintln(w, e.Message)
		fmt.Fprintln(w)
	}
}

func printStatus(w io.Writer, st *repo.Status) {
	bold.Fprintln(w, "=== Branches ===")
	for _, name := range st.Branches {
		if name == st.Current {
			green.Fprintf(w, "*%s\n", name)
		} else {
			fmt.Fprintln(w, name)
		}
	}
	fmt.Fprintln(w)

	bold.Fprintln(w, "=== Staged Files ===")
	for _, path := range st.Staged {
		green.Fprintln(w, path)
	}
	fmt.Fprintln(w)

	bold.Fprintln(w, "=== Removed Files ===")
	for _, path := range st.Removed {
		red.Fprintln(w, path)
	}
	fmt.Fprintln(w)

	bold.Fprintln(w, "=== Modifications Not Staged For Commit ===")
	for _, m := range st.Modified {
		red.Fprintf(w, "%s (%s)\n", m.Path, m.Kind)
	}
	fmt.Fprintln(w)

	bold.Fprintln(w, "=== Untracked Files ===")
	for _, path := range st.Untracked {
		fmt.Fprintln(w, path)
	}
	fmt.Fprintln(w)
}

func printMerge(w io.Writer, result *repo.MergeResult) {
	switch result.Outcome {
	case repo.AlreadyMerged:
		fmt.Fprintln(w, "Given branch is an ancestor of the current branch.")
	case repo.FastForwarded:
		fmt.Fprintln(w, "Current branch fast-forwarded.")
	default:
		if len(result.Conflicts) > 0 {
			red.Fprintln(w, "Encountered a merge conflict.")
		}
	}
}

func printDiffs(w io.Writer, diffs []repo.FileDiff) {
	for _, d := range diffs {
		oldName, newName := "a/"+d.Path, "b/"+d.Path
		if d.Added {
			oldName = "/dev/null"
		}
		if d.Deleted {
			newName = "/dev/null"
		}
		bold.Fprintf(w, "--- %s\n", oldName)
		bold.Fprintf(w, "+++ %s\n", newName)

		for _, hunk := range d.Result.Hunks {
			cyan.Fprintln(w, hunk.Header())
			for _, line := range hunk.Lines {
				text := line.Prefix() + line.Content
				switch line.Prefix() {
				case "+":
					green.Fprintln(w, text)
				case "-":
					red.Fprintln(w, text)
				default:
					fmt.Fprintln(w, text)
				}
			}
		}
	}
}

func printVerify(w io.Writer, report *repo.VerifyReport) {
	for _, problem := range report.Problems {
		red.Fprintln(w, problem)
	}
	fmt.Fprintf(w, "checked %d objects and %d commits, %d problem(s)\n",
		report.Objects, report.Commits, len(report.Problems))
}
