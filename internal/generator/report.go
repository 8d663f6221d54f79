package generator

import "github.com/unkn0wn-root/gencode/internal/codefile"

type Status string

const (
	StatusGenerated Status = "generated"
	StatusOverwrote Status = "overwrote"
	StatusIdentical Status = "skipped (identical)"
	StatusUnchecked Status = "skipped (unchecked)"
	StatusFailed    Status = "failed"
)

type Result struct {
	File   *codefile.CodeFile
	Status Status
	Err    error
}

type Report struct {
	Results []Result
	DryRun  bool
}

// Count returns how many results ended with status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Written is the number of files that were (or, in a dry run, would be)
// written.
func (r Report) Written() int {
	return r.Count(StatusGenerated) + r.Count(StatusOverwrote)
}
