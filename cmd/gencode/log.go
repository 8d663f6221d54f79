package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gencode/internal/errdef"
	"github.com/unkn0wn-root/gencode/internal/history"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		limit   int
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "log [path|id]",
		Short: "List recent saves, optionally only those that touched a file",
		Long: heredoc.Doc(`
			List the saves recorded in the history file, newest first. With an
			argument, only saves that touched that file (absolute or working
			directory relative path, or code file ID) are listed.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.hist == nil {
				return errdef.New(errdef.CodeConfig, "save history is disabled (history_file is empty)")
			}
			if err := a.hist.Load(); err != nil {
				return err
			}

			key := ""
			if len(args) == 1 {
				key = historyKey(args[0])
			}
			entries := a.hist.ByFile(key)
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			if len(entries) == 0 {
				_, err := fmt.Fprintln(a.out, a.th.Muted.Render("no saves recorded"))
				return err
			}
			for _, e := range entries {
				if err := a.writeLogEntry(e, verbose); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many saves (0 for all)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every file of each save")
	return cmd
}

// historyKey maps a path argument onto the absolute path stored in the
// journal. Code file IDs pass through unchanged.
func historyKey(arg string) string {
	if _, err := uuid.Parse(arg); err == nil {
		return arg
	}
	if abs, err := filepath.Abs(arg); err == nil {
		return abs
	}
	return arg
}

func (a *app) writeLogEntry(e history.Entry, verbose bool) error {
	head := fmt.Sprintf("%s (%s)  %s", e.SavedAt.Local().Format(time.DateTime), humanize.Time(e.SavedAt), e.Manifest)
	line := fmt.Sprintf("%s\n  %s\n", a.th.Header.Render(head),
		a.th.Summary.Render(fmt.Sprintf("%d written of %d files", e.Written(), len(e.Files))))
	if verbose {
		var b strings.Builder
		for _, f := range e.Files {
			fmt.Fprintf(&b, "  %s %s", f.Status, f.Path)
			if f.Error != "" {
				fmt.Fprintf(&b, ": %s", f.Error)
			}
			b.WriteByte('\n')
		}
		line += b.String()
	}
	_, err := fmt.Fprint(a.out, line)
	return err
}
