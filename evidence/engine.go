package evidence

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Engine accumulates Evidence from a fixed sequence of detectors,
// analyzes contradictions, applies an environmental adjustment exactly
// once, and derives a final Verdict. An Engine instance is constructed
// once at program start and is owned exclusively by the orchestrator,
// which passes it by reference to each detector in turn.
type Engine struct {
	score          uint64
	history        []Evidence
	contradictions []Contradiction
	adjusted       bool
}

// NewEngine constructs an empty Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Add appends Evidence to the history and increases the score by its
// weight. Score is never decreased by Add.
func (e *Engine) Add(ev Evidence) {
	e.history = append(e.history, ev)
	e.score += ev.Weight
}

// RecordContradiction appends a Contradiction between two sources.
func (e *Engine) RecordContradiction(a, b Source, reason string) {
	e.contradictions = append(e.contradictions, Contradiction{A: a, B: b, Reason: reason})
}

// Score returns the current cumulative score.
func (e *Engine) Score() uint64 {
	return e.score
}

// History returns the Evidence in the order detectors fired.
func (e *Engine) History() []Evidence {
	return e.history
}

// Contradictions returns the recorded contradictions.
func (e *Engine) Contradictions() []Contradiction {
	return e.contradictions
}

// WeightFor sums the weight of all Evidence recorded for a given source.
func (e *Engine) WeightFor(src Source) uint64 {
	var total uint64
	for _, ev := range e.history {
		if ev.Source == src {
			total += ev.Weight
		}
	}
	return total
}

// HasEvidence reports whether any Evidence was recorded for a source.
func (e *Engine) HasEvidence(src Source) bool {
	for _, ev := range e.history {
		if ev.Source == src {
			return true
		}
	}
	return false
}

// ApplyEnvironmentalAdjustment scales the score by factor, which must be
// called exactly once, after the last detector has run. Calling it more
// than once panics: the orchestrator owns this call and a second call
// is a programming error, not a recoverable condition.
func (e *Engine) ApplyEnvironmentalAdjustment(factor float64) {
	if e.adjusted {
		panic("evidence: environmental adjustment already applied")
	}
	e.adjusted = true
	e.score = uint64(math.Floor(float64(e.score) * factor))
}

// AnalyzeContradictions runs the three contradiction rules against the
// current (unscaled) history. It must be called before
// ApplyEnvironmentalAdjustment would otherwise be read for verdict
// purposes — in this engine it is run against the score as accumulated,
// before DeriveVerdict, per the "heavy timing" thresholds being defined
// against the unscaled total.
func (e *Engine) AnalyzeContradictions(hypervisorPresent bool) {
	timingWeight := e.WeightFor(SourceTiming)

	// Rule 1: heavy timing anomaly but no tracer and no hardware breakpoint evidence.
	if timingWeight >= 40 &&
		!e.HasEvidence(SourceTracerPid) && !e.HasEvidence(SourcePtrace) &&
		!e.HasEvidence(SourceHardwareBp) {
		e.RecordContradiction(SourceTiming, SourcePtrace, "heavy timing anomaly but no tracer")
	}

	// Rule 2: hypervisor present but timing is entirely clean.
	if hypervisorPresent && timingWeight == 0 {
		e.RecordContradiction(SourceTiming, SourceEnvironment, "hypervisor present but clean timing — possible TSC virtualization")
	}

	// Rule 3: multiple breakpoint classes at high weight alongside a tracer.
	int3Weight := e.WeightFor(SourceInt3)
	hwbpWeight := e.WeightFor(SourceHardwareBp)
	tracerWeight := e.WeightFor(SourceTracerPid)
	if int3Weight >= 25 && hwbpWeight >= 15 && tracerWeight >= 100 {
		e.RecordContradiction(SourceInt3, SourceHardwareBp, "multiple breakpoint classes, hostile environment")
	}
}

// DeriveVerdict classifies the engine's current (adjusted) score and
// contradiction state.
func (e *Engine) DeriveVerdict() Verdict {
	switch {
	case len(e.contradictions) > 0 || e.score >= 90:
		return VerdictDeceptive
	case e.score >= 50:
		return VerdictInstrumented
	case e.score >= 20:
		return VerdictSuspicious
	default:
		return VerdictClean
	}
}

// Summary renders the evidence history as a table, for -debug output.
func (e *Engine) Summary() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Source", "Weight", "Confidence", "Details"})
	for _, ev := range e.history {
		t.AppendRow(table.Row{ev.Source, ev.Weight, fmt.Sprintf("%.2f", ev.Confidence), ev.Details})
	}
	if len(e.contradictions) > 0 {
		var reasons []string
		for _, c := range e.contradictions {
			reasons = append(reasons, c.String())
		}
		t.AppendFooter(table.Row{"Contradictions", "", "", strings.Join(reasons, "; ")})
	}
	return t.Render()
}
