// Package phantom synthesizes planar boundary recordings from analytic
// point sources. A point source emits a Gaussian pressure pulse that
// reaches each sensor after the acoustic travel time with spherical
// 1/r spreading; superposing a few sources gives a recording with a
// known ground truth, which is what the engine's validation needs. This
// is a closed-form signal model, not a wave solver.
package phantom

import (
	"math"

	"parecon3d/pkg/recording"
)

// PointSource is a single initial-pressure source below the sensor
// plane.
type PointSource struct {
	// X1, X2 locate the source laterally in meters, measured in the
	// sensor-plane coordinate frame.
	X1, X2 float64

	// Depth is the distance from the sensor plane in meters; must be
	// positive for the source to be visible to a one-sided recording.
	Depth float64

	// Amplitude scales the emitted pulse.
	Amplitude float64

	// PulseWidth is the temporal standard deviation of the Gaussian
	// pulse in seconds.
	PulseWidth float64
}

// Record synthesizes a canonical recording of the given sources on an
// n1 x n2 sensor grid sampled nt times. Sensor (i1, i2) sits at
// (i1*spacing1, i2*spacing2) on the plane.
func Record(sources []PointSource, n1, n2, nt int, spacing1, spacing2, dt, soundSpeed float64) *recording.Recording {
	data := make([]float64, n1*n2*nt)

	for _, src := range sources {
		for i1 := 0; i1 < n1; i1++ {
			d1 := float64(i1)*spacing1 - src.X1
			for i2 := 0; i2 < n2; i2++ {
				d2 := float64(i2)*spacing2 - src.X2
				r := math.Sqrt(d1*d1 + d2*d2 + src.Depth*src.Depth)
				if r == 0 {
					continue
				}
				arrival := r / soundSpeed
				amp := src.Amplitude / (4 * math.Pi * r)
				base := (i1*n2 + i2) * nt
				for it := 0; it < nt; it++ {
					t := float64(it) * dt
					d := (t - arrival) / src.PulseWidth
					data[base+it] += amp * math.Exp(-0.5*d*d)
				}
			}
		}
	}

	return &recording.Recording{
		Data:       data,
		N1:         n1,
		N2:         n2,
		Nt:         nt,
		Spacing1:   spacing1,
		Spacing2:   spacing2,
		Dt:         dt,
		SoundSpeed: soundSpeed,
	}
}

// Ball rasterizes the sources as Gaussian balls into a volume shaped
// like the engine's output: row-major (depth, dim1, dim2) with depth
// spacing soundSpeed*dt. Used as the ground truth for quality metrics;
// the spatial radius of each ball is the pulse width scaled by the
// sound speed.
func Ball(sources []PointSource, nDepth, n1, n2 int, spacing1, spacing2, dt, soundSpeed float64) []float64 {
	data := make([]float64, nDepth*n1*n2)
	dz := soundSpeed * dt

	for _, src := range sources {
		sigma := src.PulseWidth * soundSpeed
		for iz := 0; iz < nDepth; iz++ {
			ddz := float64(iz)*dz - src.Depth
			for i1 := 0; i1 < n1; i1++ {
				d1 := float64(i1)*spacing1 - src.X1
				for i2 := 0; i2 < n2; i2++ {
					d2 := float64(i2)*spacing2 - src.X2
					d := (ddz*ddz + d1*d1 + d2*d2) / (2 * sigma * sigma)
					data[(iz*n1+i1)*n2+i2] += src.Amplitude * math.Exp(-d)
				}
			}
		}
	}

	return data
}
