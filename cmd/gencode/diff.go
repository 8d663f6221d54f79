package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/alecthomas/chroma/quick"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/gencode/internal/codefile"
)

func newDiffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <manifest> [path|id...]",
		Short: "Print unified diffs of files that would be overwritten",
		Long: heredoc.Doc(`
			Print a unified diff, from the file on disk to the generated content,
			for every overwrite file of the manifest or only for the files named.
			New and identical files have no diff. Binary files are reported but
			never diffed.
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.gen.Load(args[0])
			if err != nil {
				return err
			}
			picked, err := a.pick(files, args[1:])
			if err != nil {
				return err
			}

			for _, f := range picked {
				if err := a.writeDiff(f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}

func (a *app) writeDiff(f *codefile.CodeFile) error {
	d, ok := f.Diff()
	if !ok {
		if f.Operation() != codefile.OpOverwrite {
			return nil
		}
		rel := f.RelativePath()
		_, err := fmt.Fprintln(a.out, a.th.Muted.Render(fmt.Sprintf("Binary files a/%s and b/%s differ", rel, rel)))
		return err
	}
	if d == "" {
		return nil
	}
	_, err := fmt.Fprint(a.out, a.colorDiff(d))
	return err
}

// colorDiff highlights d with the configured style when the output is a
// terminal. Highlighting failures fall back to the plain diff.
func (a *app) colorDiff(d string) string {
	if a.plain {
		return d
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, d, "diff", "terminal16m", a.cfg.Style); err != nil {
		a.log.Debug("diff highlight failed", zap.Error(err))
		return d
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
