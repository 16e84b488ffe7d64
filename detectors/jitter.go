package detectors

import (
	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
	"github.com/antidebug/probe/primitives"
)

const jitterRuns = 30

// Jitter compares the variance of four instruction-type microbenchmarks
// under repeated sampling. A tracer single-stepping through the
// amplification variant's branchy loop pays disproportionate overhead
// compared to the flat NOP sequence; a native CPU does not.
func Jitter(e *evidence.Engine, cfg *core.Config, logger *core.Logger) {
	nop := sampleJitter(primitives.MeasureNopJitter)
	amp := sampleJitter(primitives.MeasureAmplificationJitter)
	mov := sampleJitter(primitives.MeasureMovJitter)
	xorv := sampleJitter(primitives.MeasureXorJitter)

	nopMean := mean(nop)
	nopVariance := variance(nop)
	ampVariance := variance(amp)

	logger.Debug("jitter: nop mean=%.1f nop var=%.1f amp var=%.1f mov var=%.1f xor var=%.1f",
		nopMean, nopVariance, ampVariance, variance(mov), variance(xorv))

	if nopVariance > 0 && ampVariance >= cfg.Thresholds.JitterVarianceRatio*nopVariance && nopMean > cfg.Thresholds.JitterNopMeanFloor {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceJitter,
			Weight:     30,
			Confidence: 0.5,
			Details:    "amplification variance disproportionate to NOP variance",
		})
	}
}

func sampleJitter(measure func() uint64) []float64 {
	samples := make([]float64, jitterRuns)
	for i := range samples {
		samples[i] = float64(measure())
	}
	return samples
}
