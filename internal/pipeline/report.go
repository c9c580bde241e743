package pipeline

import (
	"fmt"
	"strings"

	"tifpng/internal/links"
)

// Op names the kind of run that produced a Report.
type Op string

const (
	OpConvert Op = "convert"
	OpRemove  Op = "remove"
	OpRestore Op = "restore"
	OpPurge   Op = "purge"
	OpCopy    Op = "copy"
)

func (o Op) verb() string {
	switch o {
	case OpRemove:
		return "remove"
	case OpRestore:
		return "restore"
	case OpPurge:
		return "delete"
	default:
		return "convert"
	}
}

// noun labels one task in rendered failure lists.
func (o Op) noun() string {
	switch o {
	case OpRemove, OpRestore:
		return "Removal"
	case OpPurge:
		return "Deletion"
	default:
		return "Conversion"
	}
}

// Status is the settled state of one task.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusWriteConflict
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusWriteConflict:
		return "write-conflict"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Outcome is what one task settled to.
type Outcome struct {
	Index  int // 1-based position in document order
	Ref    links.Reference
	Status Status
	Output string // file written or deleted, if any
	Bytes  int64
	Err    error
}

// Failure is one failed task as shown to the user.
type Failure struct {
	Index   int // 1-based
	Message string
}

// Report aggregates a settled run. Succeeded + len(Failures) == Total.
type Report struct {
	Op        Op
	Total     int
	Succeeded int
	Skipped   []int // indices of write-conflict outcomes, counted as succeeded
	Failures  []Failure
	Outcomes  []Outcome

	Empty    bool // nothing matched; no task ran
	Declined bool // the user declined a purge
}

// OK reports whether no task failed.
func (r Report) OK() bool { return len(r.Failures) == 0 }

func buildReport(op Op, outcomes []Outcome) Report {
	r := Report{Op: op, Total: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case StatusFailure:
			r.Failures = append(r.Failures, Failure{
				Index:   o.Index,
				Message: fmt.Sprintf("Failed to %s %s: %v", op.verb(), o.Ref.Target, o.Err),
			})
		case StatusWriteConflict:
			r.Skipped = append(r.Skipped, o.Index)
			r.Succeeded++
		default:
			r.Succeeded++
		}
	}
	return r
}

// Summary is a one-line description of the run.
func (r Report) Summary() string {
	switch {
	case r.Declined:
		return "Cancelled, nothing was deleted"
	case r.Empty:
		if r.Op == OpPurge {
			return "No PNG copies found"
		}
		switch r.Op {
		case OpConvert:
			return "No TIFF embeds found"
		case OpCopy:
			return "No files to convert"
		}
		return "No converted embeds found"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d done", r.Succeeded, r.Total)
	if n := len(r.Skipped); n > 0 {
		fmt.Fprintf(&b, ", %d kept", n)
	}
	if n := len(r.Failures); n > 0 {
		fmt.Fprintf(&b, ", %d failed", n)
	}
	return b.String()
}

// FailureLines renders the failure list in document order,
// e.g. "Conversion 2: Failed to convert b.tif: ...".
func (r Report) FailureLines() []string {
	out := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, fmt.Sprintf("%s %d: %s", r.Op.noun(), f.Index, f.Message))
	}
	return out
}
