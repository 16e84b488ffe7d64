package detectors

import (
	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
	"github.com/antidebug/probe/primitives"
	"github.com/antidebug/probe/signalcompat"
)

const hardwareBpBaselineRuns = 10

// HardwareBp runs two independent sub-probes for hardware breakpoints:
// an attempted DR7 read (which should fault on honest silicon) and a
// NOP-loop timing probe (a single-step tracer inflates every
// iteration, a hardware breakpoint inflates none of them — this
// catches tracers that skip the DR7 probe's fault path by emulating
// it).
func HardwareBp(e *evidence.Engine, logger *core.Logger) {
	faulted := primitives.ReadDR7()
	signalcompat.SetSegvReceived(faulted)

	if !faulted {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceHardwareBp,
			Weight:     30,
			Confidence: 0.6,
			Details:    "DRx not trapping",
		})
	} else {
		logger.Debug("hardwarebp: DR7 read faulted as expected")
	}

	baseline := make([]float64, hardwareBpBaselineRuns)
	for i := range baseline {
		baseline[i] = float64(primitives.MeasureNopJitter())
	}
	baselineMedian := median(baseline)

	sample := float64(primitives.MeasureNopJitter())
	logger.Debug("hardwarebp: nop sample=%.0f baseline median=%.0f", sample, baselineMedian)

	if baselineMedian > 0 && sample >= 3*baselineMedian {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceHardwareBp,
			Weight:     15,
			Confidence: 0.4,
			Details:    "NOP loop exceeded 3x baseline median",
		})
	}
}
