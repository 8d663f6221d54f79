package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gencode/internal/codefile"
	"github.com/unkn0wn-root/gencode/internal/errdef"
	"github.com/unkn0wn-root/gencode/internal/generator"
	"github.com/unkn0wn-root/gencode/internal/manifest"
	"github.com/unkn0wn-root/gencode/internal/theme"
)

const shortIDLen = 8

func newStatusCmd(a *app) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "status [manifest...]",
		Short: "Show what saving would do to each generated file",
		Long: heredoc.Doc(`
			Classify every file of the given manifests against the disk. With no
			arguments, manifests (*.gen.yaml, *.gen.yml, *.gen.toml) are
			discovered in the working directory.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				found, err := manifest.Discover(".", recursive)
				if err != nil {
					return errdef.Wrap(errdef.CodeManifest, err, "discover manifests")
				}
				if len(found) == 0 {
					return errdef.New(errdef.CodeManifest, "no manifests found in the working directory")
				}
				for _, f := range found {
					paths = append(paths, f.Path)
				}
			}

			for i, p := range paths {
				files, err := a.gen.Load(p)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(a.out)
				}
				if err := writeStatus(a.out, a.th, p, files); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Discover manifests in subdirectories too")
	return cmd
}

func writeStatus(w io.Writer, th theme.Theme, name string, files []*codefile.CodeFile) error {
	header := []string{"OP", "SIZE", "ID", "PATH"}
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			f.Operation().String(),
			humanize.Bytes(uint64(len(f.Content()))),
			shortID(f.ID()),
			f.RelativePath(),
		})
	}

	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	b.WriteString(th.Header.Render(name))
	b.WriteByte('\n')
	b.WriteString(th.Muted.Render(formatRow(header, widths)))
	b.WriteByte('\n')
	for i, row := range rows {
		op := th.Op(files[i].Operation()).Render(runewidth.FillRight(row[0], widths[0]))
		size := runewidth.FillRight(row[1], widths[1])
		id := runewidth.FillRight(row[2], widths[2])
		b.WriteString(op + "  " + size + "  " + id + "  " + th.Path.Render(row[3]))
		b.WriteByte('\n')
	}
	b.WriteString(th.Summary.Render(generator.Summarize(files).String()))
	b.WriteByte('\n')

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("status: write: %w", err)
	}
	return nil
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = runewidth.FillRight(c, widths[i])
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
