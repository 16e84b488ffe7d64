package detectors

import (
	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
	"github.com/antidebug/probe/primitives"
	"github.com/antidebug/probe/signalcompat"
)

// TrapFlag triggers the x86 trap flag and checks whether the resulting
// SIGTRAP reached this process's own signal handling. It is skipped
// entirely under ANTIDEBUG_GDB_COMPATIBLE (to avoid livelock with
// debuggers that forward SIGTRAP to the inferior) and when the Ptrace
// detector already recorded a tracer, since a traced process will
// never see its own SIGTRAP regardless of what this probe does.
func TrapFlag(e *evidence.Engine, logger *core.Logger) {
	if signalcompat.GDBCompatible() {
		logger.Debug("trapflag: skipped, ANTIDEBUG_GDB_COMPATIBLE set")
		return
	}
	if e.HasEvidence(evidence.SourceTracerPid) {
		logger.Debug("trapflag: skipped, TracerPid already evidenced")
		return
	}

	signalcompat.ArmTrapFlag()
	primitives.TriggerTrapFlag()

	if signalcompat.TrapReceived() {
		logger.Debug("trapflag: trap_received true, native behavior")
		return
	}

	e.Add(evidence.Evidence{
		Source:     evidence.SourceTrapFlag,
		Weight:     40,
		Confidence: 0.9,
		Details:    "SIGTRAP not observed after trap-flag trigger",
	})
}
