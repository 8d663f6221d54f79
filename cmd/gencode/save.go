package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gencode/internal/generator"
)

type saveFlags struct {
	overwrite []string
	force     bool
	dryRun    bool
}

func newSaveCmd(a *app) *cobra.Command {
	var f saveFlags
	cmd := &cobra.Command{
		Use:   "save <manifest>",
		Short: "Write new files and the accepted overwrites",
		Long: heredoc.Doc(`
			Write every new file of the manifest. Files whose content differs from
			the disk are only replaced when named with --overwrite (path or ID,
			repeatable or comma separated) or when --force is given. Identical
			files are never touched.
		`),
		Example: heredoc.Doc(`
			gencode save app.gen.yaml --dry-run
			gencode save app.gen.yaml --overwrite models/user.go,models/post.go
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.gen.Load(args[0])
			if err != nil {
				return err
			}
			answers, err := generator.Answers(files, f.overwrite)
			if err != nil {
				return err
			}

			rep, saveErr := a.gen.Save(files, generator.SaveOpt{
				Answers: answers,
				Force:   f.force,
				DryRun:  f.dryRun,
			})
			a.record(args[0], rep)
			if err := generator.WriteReport(a.out, rep); err != nil {
				return err
			}
			if err := a.writeSaveSummary(rep); err != nil {
				return err
			}
			return saveErr
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVar(&f.overwrite, "overwrite", nil, "Accept the overwrite of these files (path or ID)")
	fl.BoolVar(&f.force, "force", false, "Accept every overwrite")
	fl.BoolVar(&f.dryRun, "dry-run", false, "Report what would be written without writing")
	return cmd
}

func (a *app) writeSaveSummary(rep generator.Report) error {
	verb := "written"
	if rep.DryRun {
		verb = "to write"
	}
	line := fmt.Sprintf("%d %s, %d identical, %d unchecked", rep.Written(), verb,
		rep.Count(generator.StatusIdentical), rep.Count(generator.StatusUnchecked))
	style := a.th.Success
	if n := rep.Count(generator.StatusFailed); n > 0 {
		line += fmt.Sprintf(", %d failed", n)
		style = a.th.Error
	}
	if _, err := fmt.Fprintln(a.out, style.Render(line)); err != nil {
		return err
	}
	if rep.Count(generator.StatusUnchecked) > 0 {
		_, err := fmt.Fprintln(a.out, a.th.Muted.Render("use --overwrite <path> or --force to replace changed files"))
		return err
	}
	return nil
}
