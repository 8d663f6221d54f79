package main

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/gencode/internal/config"
)

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := newApp(out, errOut)

	root := &cobra.Command{
		Use:   "gencode",
		Short: "Preview, diff and save generated code files",
		Long: heredoc.Doc(`
			gencode compares generated files with what is on disk before writing
			anything. Each file listed in a manifest is classified as:

			  new        nothing exists at the path yet
			  overwrite  a file exists with different content
			  skip       a file exists with identical content

			New files are always written, skip files never are, and overwrite
			files only when accepted one by one or with --force.
		`),
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.close()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Path to a gencode.toml (default: ./gencode.toml, then the user config dir)")
	pf.String("base-path", "", "Strip this directory from displayed paths (default: the manifest base path)")
	pf.String("style", "", "Chroma style for previews and diffs")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	bindFlags(a.v, pf, map[string]string{
		config.KeyBasePath: "base-path",
		config.KeyStyle:    "style",
		config.KeyLogLevel: "log-level",
	})

	root.AddCommand(
		newStatusCmd(a),
		newPreviewCmd(a),
		newDiffCmd(a),
		newSaveCmd(a),
		newInitCmd(a),
		newLogCmd(a),
	)
	return root
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}
