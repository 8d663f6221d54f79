package initcmd

import "github.com/unkn0wn-root/gencode/internal/config"

const (
	DefaultDir      = "."
	DefaultTemplate = "standard"
)

const (
	fileConfig     = config.FileName
	fileManifest   = "example.gen.yaml"
	exampleOutDir  = "out"
	gitignoreFile  = ".gitignore"
	gitignoreEntry = exampleOutDir + "/"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type Action string

const (
	ActionCreate    Action = "create"
	ActionOverwrite Action = "overwrite"
	ActionAppend    Action = "append"
	ActionSkip      Action = "skip"
)
