package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gencode/internal/binaryview"
	"github.com/unkn0wn-root/gencode/internal/codefile"
)

const defaultPreviewBytes = 256

func newPreviewCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "preview <manifest> <path|id>",
		Short: "Print the HTML preview of one generated file",
		Long: heredoc.Doc(`
			Print the HTML preview of a generated file: highlighted source for
			known languages, rendered Markdown when render_markdown is set, and
			escaped text with <br /> line breaks otherwise.

			Binary files have no preview; a hex dump of their head is printed
			instead.
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.gen.Load(args[0])
			if err != nil {
				return err
			}
			picked, err := a.pick(files, args[1:])
			if err != nil {
				return err
			}
			f := picked[0]

			html, ok := f.Preview()
			if ok {
				_, err = fmt.Fprintln(a.out, html)
				return err
			}
			return writeBinarySummary(a, f, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "bytes", defaultPreviewBytes, "Bytes of a binary file to hex dump")
	return cmd
}

func writeBinarySummary(a *app, f *codefile.CodeFile, limit int) error {
	content := f.Content()
	meta := binaryview.Analyze(content, f.Path())

	mimeType := meta.MIME
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	head := fmt.Sprintf("binary file %s (%s, %s)", f.RelativePath(), mimeType, humanize.Bytes(uint64(meta.Size)))
	if _, err := fmt.Fprintln(a.out, a.th.Header.Render(head)); err != nil {
		return err
	}

	if limit <= 0 || limit > len(content) {
		limit = len(content)
	}
	if limit == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(a.out, binaryview.HexDump(content[:limit], 0)); err != nil {
		return err
	}
	if limit < len(content) {
		more := fmt.Sprintf("... %s more", humanize.Bytes(uint64(len(content)-limit)))
		_, err := fmt.Fprintln(a.out, a.th.Muted.Render(more))
		return err
	}
	return nil
}
