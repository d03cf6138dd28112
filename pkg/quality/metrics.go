// Package quality computes reconstruction quality metrics between a
// reference volume and a reconstructed one. The metrics are used to
// validate the engine against analytic phantoms and to compare
// interpolation methods.
package quality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics holds the quality figures for one reference/reconstruction
// pair.
type Metrics struct {
	// RMSE is the root mean square voxel error. Lower is better.
	RMSE float64

	// SSIM is the structural similarity index over the whole volume,
	// in [-1, 1] with 1 meaning identical structure.
	SSIM float64

	// Correlation is the Pearson correlation between the two volumes.
	Correlation float64

	// MaxAbsError is the largest absolute voxel difference.
	MaxAbsError float64
}

// SSIM constants for unit dynamic range.
const (
	ssimK1 = 0.01
	ssimK2 = 0.03
)

// Compare computes the metrics between two volumes of equal length.
func Compare(reference, reconstructed []float64) (Metrics, error) {
	n := len(reference)
	if n == 0 || n != len(reconstructed) {
		return Metrics{}, fmt.Errorf("quality: volume lengths differ: %d vs %d", n, len(reconstructed))
	}

	var m Metrics

	m.RMSE = floats.Distance(reference, reconstructed, 2) / math.Sqrt(float64(n))
	for i := 0; i < n; i++ {
		if a := math.Abs(reference[i] - reconstructed[i]); a > m.MaxAbsError {
			m.MaxAbsError = a
		}
	}

	muX := stat.Mean(reference, nil)
	muY := stat.Mean(reconstructed, nil)
	sigmaX := stat.Variance(reference, nil)
	sigmaY := stat.Variance(reconstructed, nil)
	sigmaXY := stat.Covariance(reference, reconstructed, nil)

	c1 := ssimK1 * ssimK1
	c2 := ssimK2 * ssimK2
	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)
	if den != 0 {
		m.SSIM = num / den
	}

	if sigmaX > 0 && sigmaY > 0 {
		m.Correlation = stat.Correlation(reference, reconstructed, nil)
	}

	return m, nil
}

// PeakIndex returns the flat index of the largest-magnitude voxel.
// It is used to locate a reconstructed point source.
func PeakIndex(data []float64) int {
	peak := 0
	best := math.Inf(-1)
	for i, v := range data {
		if a := math.Abs(v); a > best {
			best = a
			peak = i
		}
	}
	return peak
}
