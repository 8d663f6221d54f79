package codefile

import "fmt"

// Operation is what Save will do with a code file. It is decided once, when
// the file is built, by comparing the proposed content with the disk.
type Operation string

const (
	// OpNew means nothing exists at the target path yet.
	OpNew Operation = "new"
	// OpOverwrite means the existing file differs from the proposed content.
	OpOverwrite Operation = "overwrite"
	// OpSkip means the existing file already holds the proposed content.
	OpSkip Operation = "skip"
)

func (o Operation) String() string { return string(o) }

func (o Operation) Valid() bool {
	switch o {
	case OpNew, OpOverwrite, OpSkip:
		return true
	default:
		return false
	}
}

func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if !op.Valid() {
		return "", fmt.Errorf("codefile: unknown operation %q", s)
	}
	return op, nil
}
