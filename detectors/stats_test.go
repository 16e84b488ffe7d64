package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanStddevCV(t *testing.T) {
	xs := []float64{190, 200, 210, 200, 200}
	mu := mean(xs)
	assert.InDelta(t, 200.0, mu, 0.001)

	sigma := stddev(xs, mu)
	assert.Greater(t, sigma, 0.0)

	cv := coefficientOfVariation(mu, sigma)
	assert.InDelta(t, sigma/mu, cv, 0.0001)
}

// TestMeanStddevCV_NativeBaseline matches the native-baseline boundary
// scenario: a tight timing distribution around 200 cycles produces a
// mean and CV well under the elevated/high thresholds.
func TestMeanStddevCV_NativeBaseline(t *testing.T) {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = 200
	}
	xs[0] = 198
	xs[99] = 202

	trimmed := trimFraction(xs, 0.05)
	mu := mean(trimmed)
	sigma := stddev(trimmed, mu)
	cv := coefficientOfVariation(mu, sigma)

	assert.Less(t, mu, 2000.0)
	assert.Less(t, cv, 0.5)
}

// TestMeanStddevCV_QemuEmulation matches the QEMU user-mode-emulation
// boundary scenario: a high mean with high coefficient of variation
// crosses both the "high mean" and "high variance" thresholds.
func TestMeanStddevCV_QemuEmulation(t *testing.T) {
	// 85 cheap samples and 15 very expensive ones: enough expensive
	// samples survive the 5%-per-side trim to keep both the mean and
	// the coefficient of variation past the emulator thresholds.
	xs := make([]float64, 100)
	for i := range xs {
		if i < 15 {
			xs[i] = 150000
		} else {
			xs[i] = 100
		}
	}

	trimmed := trimFraction(xs, 0.05)
	mu := mean(trimmed)
	sigma := stddev(trimmed, mu)
	cv := coefficientOfVariation(mu, sigma)

	assert.Greater(t, mu, 10000.0)
	assert.Greater(t, cv, 1.0)
}

func TestCoefficientOfVariation_ZeroMean(t *testing.T) {
	assert.Equal(t, 0.0, coefficientOfVariation(0, 5))
}

func TestTrimFraction(t *testing.T) {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(i)
	}
	trimmed := trimFraction(xs, 0.05)
	assert.Len(t, trimmed, 90)
	assert.Equal(t, 5.0, trimmed[0])
	assert.Equal(t, 94.0, trimmed[len(trimmed)-1])
}

func TestTrimFraction_TooSmall(t *testing.T) {
	xs := []float64{1, 2, 3}
	assert.Equal(t, []float64{1, 2, 3}, trimFraction(xs, 0.5))
}

func TestCountOutliers(t *testing.T) {
	xs := []float64{10, 10, 10, 10, 100, 100, 100, 100, 100, 10}
	count := countOutliers(xs, 10, 1, 4)
	assert.Equal(t, 5, count)
}

func TestVariance(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	v := variance(xs)
	assert.InDelta(t, 4.0, v, 0.001)
}

func TestMedian_Odd(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3, 2, 4}))
}

func TestMedian_Even(t *testing.T) {
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
}

func TestClusterAndScatter_OneCluster(t *testing.T) {
	positions := make([]int, 32)
	for i := range positions {
		positions[i] = 100 + i
	}
	clusters, scattered := clusterAndScatter(positions, 16, 64)
	assert.Equal(t, 1, clusters)
	assert.Equal(t, 0, scattered)
}

func TestClusterAndScatter_ScatteredSingle(t *testing.T) {
	positions := []int{100, 500, 900}
	clusters, scattered := clusterAndScatter(positions, 16, 64)
	assert.Equal(t, 0, clusters)
	assert.Equal(t, 3, scattered)
}

func TestClusterAndScatter_Mixed(t *testing.T) {
	cluster := make([]int, 20)
	for i := range cluster {
		cluster[i] = i
	}
	positions := append(cluster, 1000, 2000)
	clusters, scattered := clusterAndScatter(positions, 16, 64)
	assert.Equal(t, 1, clusters)
	assert.Equal(t, 2, scattered)
}

func TestClusterAndScatter_TooCloseNeitherRule(t *testing.T) {
	positions := []int{100, 110}
	clusters, scattered := clusterAndScatter(positions, 16, 64)
	assert.Equal(t, 0, clusters)
	assert.Equal(t, 0, scattered)
}

func TestShannonEntropyBits_Uniform(t *testing.T) {
	seq := []byte{1, 2, 1, 2, 1, 2, 1, 2}
	assert.InDelta(t, 1.0, shannonEntropyBits(seq), 0.0001)
}

func TestShannonEntropyBits_Constant(t *testing.T) {
	seq := []byte{1, 1, 1, 1, 1}
	assert.Equal(t, 0.0, shannonEntropyBits(seq))
}

func TestShannonEntropyBits_Empty(t *testing.T) {
	assert.Equal(t, 0.0, shannonEntropyBits(nil))
}
