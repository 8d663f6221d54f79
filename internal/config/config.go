// Package config loads gencode settings.
//
// Priority, highest first:
//  1. command-line flags bound into viper
//  2. environment variables with the GENCODE_ prefix
//  3. gencode.toml (explicit file, working directory, then Dir())
//  4. defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/gencode/internal/codefile"
	"github.com/unkn0wn-root/gencode/internal/errdef"
)

const (
	FileName   = "gencode.toml"
	EnvPrefix  = "GENCODE"
	configName = "gencode"
	configType = "toml"
)

const (
	KeyBasePath         = "base_path"
	KeyNewDirMode       = "new_dir_mode"
	KeyNewFileMode      = "new_file_mode"
	KeyStyle            = "style"
	KeyBinaryExtensions = "binary_extensions"
	KeyRenderMarkdown   = "render_markdown"
	KeyLogLevel         = "log_level"
	KeyHistoryFile      = "history_file"
	KeyHistoryMax       = "history_max_entries"
)

const defaultHistoryMax = 200

// Config holds the resolved settings.
type Config struct {
	// BasePath is stripped from displayed paths. Empty means the manifest
	// root.
	BasePath string

	// NewDirMode is applied to directories created for new files.
	NewDirMode fs.FileMode

	// NewFileMode is applied to every written file.
	NewFileMode fs.FileMode

	// Style is the chroma style used for previews.
	Style string

	// BinaryExtensions are never previewed or diffed.
	BinaryExtensions []string

	// RenderMarkdown renders .md previews instead of highlighting them.
	RenderMarkdown bool

	LogLevel string

	// HistoryFile is the save journal. Empty disables it.
	HistoryFile string

	// HistoryMaxEntries bounds the journal.
	HistoryMaxEntries int

	// File is the config file that was read, if any.
	File string
}

func Defaults() Config {
	return Config{
		NewDirMode:        codefile.DefaultDirMode,
		NewFileMode:       codefile.DefaultFileMode,
		Style:             codefile.DefaultStyle,
		BinaryExtensions:  append([]string(nil), codefile.DefaultBinaryExtensions...),
		LogLevel:          "warn",
		HistoryFile:       HistoryPath(),
		HistoryMaxEntries: defaultHistoryMax,
	}
}

// SetDefaults registers the defaults on v so flags and env can override
// them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyBasePath, d.BasePath)
	v.SetDefault(KeyNewDirMode, FormatMode(d.NewDirMode))
	v.SetDefault(KeyNewFileMode, FormatMode(d.NewFileMode))
	v.SetDefault(KeyStyle, d.Style)
	v.SetDefault(KeyBinaryExtensions, d.BinaryExtensions)
	v.SetDefault(KeyRenderMarkdown, d.RenderMarkdown)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyHistoryFile, d.HistoryFile)
	v.SetDefault(KeyHistoryMax, d.HistoryMaxEntries)
}

// Load resolves the configuration from v. An explicit file must exist; the
// search locations are optional.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := readFile(v, file); err != nil {
		return Config{}, err
	}

	cfg := Config{
		BasePath:          strings.TrimSpace(v.GetString(KeyBasePath)),
		Style:             strings.TrimSpace(v.GetString(KeyStyle)),
		BinaryExtensions:  splitList(v.GetStringSlice(KeyBinaryExtensions)),
		RenderMarkdown:    v.GetBool(KeyRenderMarkdown),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		HistoryFile:       strings.TrimSpace(v.GetString(KeyHistoryFile)),
		HistoryMaxEntries: v.GetInt(KeyHistoryMax),
		File:              v.ConfigFileUsed(),
	}

	var err error
	if cfg.NewDirMode, err = modeValue(v.Get(KeyNewDirMode)); err != nil {
		return Config{}, errdef.Wrap(errdef.CodeConfig, err, "%s", KeyNewDirMode)
	}
	if cfg.NewFileMode, err = modeValue(v.Get(KeyNewFileMode)); err != nil {
		return Config{}, errdef.Wrap(errdef.CodeConfig, err, "%s", KeyNewFileMode)
	}
	if cfg.Style == "" {
		cfg.Style = codefile.DefaultStyle
	}
	if cfg.HistoryMaxEntries <= 0 {
		cfg.HistoryMaxEntries = defaultHistoryMax
	}
	return cfg, nil
}

func readFile(v *viper.Viper, file string) error {
	file = strings.TrimSpace(file)
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return errdef.Wrap(errdef.CodeConfig, err, "read %s", file)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(".")
	v.AddConfigPath(Dir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errdef.Wrap(errdef.CodeConfig, err, "read config")
	}
	return nil
}

// CodeFileOpt maps the settings onto code file options.
func (c Config) CodeFileOpt(log *zap.Logger) codefile.Opt {
	return codefile.Opt{
		BasePath:       c.BasePath,
		DirMode:        c.NewDirMode,
		FileMode:       c.NewFileMode,
		Classifier:     codefile.DefaultClassifier(c.BinaryExtensions...),
		Style:          c.Style,
		RenderMarkdown: c.RenderMarkdown,
		Logger:         log,
	}
}

// ParseMode reads an octal permission string such as "0755" or "0o644".
func ParseMode(s string) (fs.FileMode, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	if s == "" {
		return 0, errors.New("empty mode")
	}
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", s, err)
	}
	return checkMode(n)
}

func FormatMode(m fs.FileMode) string {
	return fmt.Sprintf("0%o", m.Perm())
}

// modeValue accepts an octal string or a TOML integer (0o755 decodes to an
// int).
func modeValue(raw any) (fs.FileMode, error) {
	switch v := raw.(type) {
	case string:
		return ParseMode(v)
	case int:
		return checkMode(uint64(v))
	case int64:
		return checkMode(uint64(v))
	case uint32:
		return checkMode(uint64(v))
	case fs.FileMode:
		return checkMode(uint64(v))
	case nil:
		return 0, errors.New("missing mode")
	default:
		return 0, fmt.Errorf("invalid mode %v", raw)
	}
}

func checkMode(n uint64) (fs.FileMode, error) {
	if n == 0 || n > 0o777 {
		return 0, fmt.Errorf("mode %o out of range", n)
	}
	return fs.FileMode(n), nil
}

// splitList accepts both TOML arrays and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			part = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
