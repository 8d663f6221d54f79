package main

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/gencode/internal/codefile"
	"github.com/unkn0wn-root/gencode/internal/initcmd"
)

func newInitCmd(a *app) *cobra.Command {
	var o initcmd.Opt
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter gencode.toml and example manifest",
		Long: heredoc.Doc(`
			Write a starter configuration and, with the standard template, an
			example manifest. Rerunning init skips identical files; files you have
			edited are only replaced with --force.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if o.Dir != initcmd.DefaultDir {
					return fmt.Errorf("init: unexpected args: %s", strings.Join(args, " "))
				}
				o.Dir = args[0]
			}
			o.Out = a.out
			o.Files = codefile.Opt{Logger: a.log}
			return initcmd.Run(o)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&o.Dir, "dir", initcmd.DefaultDir, "Target directory")
	fl.StringVar(&o.Template, "template", initcmd.DefaultTemplate, "Template to use")
	fl.BoolVar(&o.Force, "force", false, "Overwrite existing files")
	fl.BoolVar(&o.DryRun, "dry-run", false, "Print actions without writing files")
	fl.BoolVar(&o.List, "list", false, "List available templates")
	fl.BoolVar(&o.NoGitignore, "no-gitignore", false, "Do not touch .gitignore")
	return cmd
}
