// Package evidence implements the weighted-evidence accumulator and
// verdict derivation that every detector feeds into.
package evidence

import "fmt"

// Source tags where a piece of Evidence came from. It doubles as the
// key used to pair sources in a Contradiction.
type Source int

const (
	SourcePtrace Source = iota
	SourceTracerPid
	SourceTiming
	SourceInt3
	SourceTrapFlag
	SourceHardwareBp
	SourceJitter
	SourceRecordReplay
	SourceEbpfCompare
	SourceEnvironment
)

func (s Source) String() string {
	switch s {
	case SourcePtrace:
		return "Ptrace"
	case SourceTracerPid:
		return "TracerPid"
	case SourceTiming:
		return "Timing"
	case SourceInt3:
		return "Int3"
	case SourceTrapFlag:
		return "TrapFlag"
	case SourceHardwareBp:
		return "HardwareBp"
	case SourceJitter:
		return "Jitter"
	case SourceRecordReplay:
		return "RecordReplay"
	case SourceEbpfCompare:
		return "EbpfCompare"
	case SourceEnvironment:
		return "Environment"
	default:
		return "Unknown"
	}
}

// Evidence is a single detector observation.
type Evidence struct {
	Source     Source
	Weight     uint64
	Confidence float64
	Details    string
}

func (e Evidence) String() string {
	return fmt.Sprintf("%s weight=%d confidence=%.2f %q", e.Source, e.Weight, e.Confidence, e.Details)
}

// Contradiction records an inconsistency between two evidence sources.
type Contradiction struct {
	A      Source
	B      Source
	Reason string
}

func (c Contradiction) String() string {
	return fmt.Sprintf("%s/%s: %s", c.A, c.B, c.Reason)
}

// Verdict is the engine's final classification, ordered
// Clean < Suspicious < Instrumented < Deceptive.
type Verdict int

const (
	VerdictClean Verdict = iota
	VerdictSuspicious
	VerdictInstrumented
	VerdictDeceptive
)

func (v Verdict) String() string {
	switch v {
	case VerdictClean:
		return "Clean"
	case VerdictSuspicious:
		return "Suspicious"
	case VerdictInstrumented:
		return "Instrumented"
	case VerdictDeceptive:
		return "Deceptive"
	default:
		return "Unknown"
	}
}
