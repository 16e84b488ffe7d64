// Package orchestrator runs the fixed detector sequence against a
// fresh evidence.Engine and environment.Snapshot, then finalizes the
// run: environmental adjustment, contradiction analysis, verdict
// derivation.
package orchestrator

import (
	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/detectors"
	"github.com/antidebug/probe/environment"
	"github.com/antidebug/probe/evidence"
	"github.com/antidebug/probe/signalcompat"
)

// Result is everything the entry point needs after a run: the engine
// holding the final (adjusted) score and history, the verdict derived
// from it, and the environment snapshot used for the adjustment.
type Result struct {
	Engine      *evidence.Engine
	Verdict     evidence.Verdict
	Environment environment.Snapshot
}

// Run executes the fixed detector order — Ptrace, Timing, Int3,
// TrapFlag, HardwareBp, Jitter, RecordReplay, EbpfCompare — against a
// fresh Engine, then applies the environmental adjustment, analyzes
// contradictions, and derives the verdict.
//
// Ptrace runs first, unconditionally: a successful PTRACE_TRACEME is
// destructive, and the signal-based detectors downstream depend on it
// having already run.
func Run(cfg *core.Config, logger *core.Logger) *Result {
	signalcompat.Init()
	defer signalcompat.Teardown()

	e := evidence.NewEngine()
	env := environment.Detect()

	if cfg.Detectors.Ptrace {
		detectors.Ptrace(e, logger)
	}
	if cfg.Detectors.Timing {
		detectors.Timing(e, cfg, logger)
	}
	if cfg.Detectors.Int3 {
		detectors.Int3(e, cfg, logger)
	}
	if cfg.Detectors.TrapFlag {
		detectors.TrapFlag(e, logger)
	}
	if cfg.Detectors.HardwareBp {
		detectors.HardwareBp(e, logger)
	}
	if cfg.Detectors.Jitter {
		detectors.Jitter(e, cfg, logger)
	}
	if cfg.Detectors.RecordReplay {
		detectors.RecordReplay(e, env, logger)
	}
	if cfg.Detectors.EbpfCompare {
		detectors.EbpfCompare(e, logger)
	}

	e.ApplyEnvironmentalAdjustment(env.AdjustmentFactor())
	e.AnalyzeContradictions(env.HypervisorPresent)
	verdict := e.DeriveVerdict()

	logger.Debug("orchestrator: score=%d verdict=%s", e.Score(), verdict)

	return &Result{
		Engine:      e,
		Verdict:     verdict,
		Environment: env,
	}
}
