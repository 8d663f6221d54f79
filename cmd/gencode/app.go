package main

import (
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/gencode/internal/codefile"
	"github.com/unkn0wn-root/gencode/internal/config"
	"github.com/unkn0wn-root/gencode/internal/errdef"
	"github.com/unkn0wn-root/gencode/internal/generator"
	"github.com/unkn0wn-root/gencode/internal/history"
	"github.com/unkn0wn-root/gencode/internal/logging"
	"github.com/unkn0wn-root/gencode/internal/theme"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	noColor    bool
	out        io.Writer
	errOut     io.Writer

	cfg   config.Config
	log   *zap.Logger
	gen   *generator.Generator
	hist  *history.Store
	th    theme.Theme
	plain bool
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		v:      viper.New(),
		out:    out,
		errOut: errOut,
		log:    zap.NewNop(),
	}
}

func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, a.errOut)
	if err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "%s", config.KeyLogLevel)
	}

	a.cfg = cfg
	a.log = log
	a.plain = theme.Plain(a.out, a.noColor)
	a.th = theme.New(a.out, a.plain)
	a.gen = generator.New(cfg.CodeFileOpt(log))
	if cfg.HistoryFile != "" {
		a.hist = history.NewStore(cfg.HistoryFile, cfg.HistoryMaxEntries)
	}

	log.Debug("config loaded",
		zap.String("file", cfg.File),
		zap.String("base_path", cfg.BasePath),
		zap.String("dir_mode", config.FormatMode(cfg.NewDirMode)),
		zap.String("file_mode", config.FormatMode(cfg.NewFileMode)),
		zap.String("style", cfg.Style),
	)
	return nil
}

// record journals a save. A journal failure never fails the save.
func (a *app) record(manifestPath string, rep generator.Report) {
	if a.hist == nil || rep.DryRun {
		return
	}
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		abs = manifestPath
	}
	if err := a.hist.Append(history.FromReport(abs, rep, time.Now())); err != nil {
		a.log.Warn("record save history", zap.String("file", a.hist.Path()), zap.Error(err))
	}
}

func (a *app) close() {
	_ = a.log.Sync()
}

// pick returns the files matching keys, or every file when keys is empty.
func (a *app) pick(files []*codefile.CodeFile, keys []string) ([]*codefile.CodeFile, error) {
	if len(keys) == 0 {
		return files, nil
	}
	out := make([]*codefile.CodeFile, 0, len(keys))
	for _, k := range keys {
		f, ok := generator.Find(files, k)
		if !ok {
			return nil, errdef.New(errdef.CodeGenerator, "no generated file matches %q", k)
		}
		out = append(out, f)
	}
	return out, nil
}
