package detectors

import (
	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
	"github.com/antidebug/probe/primitives"
)

const timingSampleCount = 100

// timingTarget is the fixed workload the timing detector brackets.
// Its cost is irrelevant — what matters is that a tracer single
// stepping through it, or an emulator interpreting it, pays overhead a
// native CPU does not.
func timingTarget() {
	var x uint64
	for i := 0; i < 50; i++ {
		x += uint64(i)
	}
	_ = x
}

// Timing runs the warmup-then-sample protocol against timingTarget and
// emits evidence for elevated mean, high mean, high coefficient of
// variation, and outlier count. Each rule can fire at most once; the
// high-mean and elevated-mean rules are exclusive, so a mean above the
// high threshold yields only the high-mean evidence.
func Timing(e *evidence.Engine, cfg *core.Config, logger *core.Logger) {
	for i := 0; i < 100; i++ {
		start := primitives.SerializedRDTSC()
		timingTarget()
		_ = primitives.SerializedRDTSC() - start
	}

	samples := make([]float64, timingSampleCount)
	for i := 0; i < timingSampleCount; i++ {
		start := primitives.SerializedRDTSC()
		timingTarget()
		end := primitives.SerializedRDTSC()
		samples[i] = float64(end - start)
	}

	trimmed := trimFraction(samples, 0.05)
	mu := mean(trimmed)
	sigma := stddev(trimmed, mu)
	cv := coefficientOfVariation(mu, sigma)

	logger.Debug("timing: mean=%.1f stddev=%.1f cv=%.3f", mu, sigma, cv)

	if mu > cfg.Thresholds.TimingHighMean {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceTiming,
			Weight:     55,
			Confidence: 0.85,
			Details:    "high mean",
		})
	} else if mu > cfg.Thresholds.TimingElevatedMean {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceTiming,
			Weight:     35,
			Confidence: 0.7,
			Details:    "elevated mean",
		})
	}

	if cv > cfg.Thresholds.TimingHighCV {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceTiming,
			Weight:     25,
			Confidence: 0.65,
			Details:    "high variance",
		})
	}

	if countOutliers(samples, mu, sigma, 4) >= 5 {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceTiming,
			Weight:     20,
			Confidence: 0.6,
			Details:    "outlier cluster beyond mean+4sigma",
		})
	}
}
