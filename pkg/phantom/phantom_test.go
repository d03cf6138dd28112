package phantom

import (
	"math"
	"testing"
)

func TestRecordShapeAndMetadata(t *testing.T) {
	const (
		n1, n2, nt = 8, 10, 32
		c          = 1500.0
		dt         = 40e-9
	)

	rec := Record(nil, n1, n2, nt, 1e-4, 2e-4, dt, c)
	if rec.N1 != n1 || rec.N2 != n2 || rec.Nt != nt {
		t.Fatalf("Expected shape (%d,%d,%d), got (%d,%d,%d)", n1, n2, nt, rec.N1, rec.N2, rec.Nt)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("Generated recording fails validation: %v", err)
	}
	for i, v := range rec.Data {
		if v != 0 {
			t.Fatalf("Recording of no sources has nonzero sample %v at %d", v, i)
		}
	}
}

func TestRecordArrivalTime(t *testing.T) {
	const (
		n1, n2, nt = 8, 8, 64
		c          = 1500.0
		dt         = 40e-9
		spacing    = 1e-4
	)

	depth := 25 * c * dt
	src := PointSource{
		X1:         4 * spacing,
		X2:         4 * spacing,
		Depth:      depth,
		Amplitude:  1,
		PulseWidth: 2 * dt,
	}
	rec := Record([]PointSource{src}, n1, n2, nt, spacing, spacing, dt, c)

	// Directly under the source the travel distance is the depth, so
	// the pulse peaks at sample depth/(c*dt).
	peakIt := 0
	peakVal := 0.0
	for it := 0; it < nt; it++ {
		if v := rec.At(4, 4, it); v > peakVal {
			peakVal = v
			peakIt = it
		}
	}

	if peakVal <= 0 {
		t.Fatal("Expected a positive pulse at the on-axis sensor")
	}
	if math.Abs(float64(peakIt)-25) > 1 {
		t.Errorf("On-axis arrival at sample %d, want 25 +- 1", peakIt)
	}

	// Off-axis sensors see a later, weaker arrival.
	offPeak := 0.0
	offIt := 0
	for it := 0; it < nt; it++ {
		if v := rec.At(0, 0, it); v > offPeak {
			offPeak = v
			offIt = it
		}
	}
	if offPeak >= peakVal {
		t.Error("Off-axis amplitude should be below the on-axis amplitude")
	}
	if offIt <= peakIt {
		t.Error("Off-axis arrival should be later than the on-axis arrival")
	}
}

func TestRecordSuperposition(t *testing.T) {
	const (
		n1, n2, nt = 6, 6, 32
		c          = 1500.0
		dt         = 40e-9
		spacing    = 1e-4
	)

	a := PointSource{X1: 2 * spacing, X2: 2 * spacing, Depth: 10 * c * dt, Amplitude: 1, PulseWidth: 2 * dt}
	b := PointSource{X1: 4 * spacing, X2: 3 * spacing, Depth: 15 * c * dt, Amplitude: 0.5, PulseWidth: 2 * dt}

	recA := Record([]PointSource{a}, n1, n2, nt, spacing, spacing, dt, c)
	recB := Record([]PointSource{b}, n1, n2, nt, spacing, spacing, dt, c)
	recAB := Record([]PointSource{a, b}, n1, n2, nt, spacing, spacing, dt, c)

	for i := range recAB.Data {
		want := recA.Data[i] + recB.Data[i]
		if math.Abs(recAB.Data[i]-want) > 1e-15 {
			t.Fatalf("Superposition violated at %d: %v vs %v", i, recAB.Data[i], want)
		}
	}
}

func TestBallCenter(t *testing.T) {
	const (
		nDepth, n1, n2 = 32, 8, 8
		c              = 1500.0
		dt             = 40e-9
		spacing        = 1e-4
	)

	src := PointSource{
		X1:         4 * spacing,
		X2:         4 * spacing,
		Depth:      12 * c * dt,
		Amplitude:  2,
		PulseWidth: 2 * dt,
	}
	vol := Ball([]PointSource{src}, nDepth, n1, n2, spacing, spacing, dt, c)

	center := (12*n1 + 4) * n2 + 4
	if math.Abs(vol[center]-2) > 1e-12 {
		t.Errorf("Ball center = %v, want the source amplitude 2", vol[center])
	}

	for i, v := range vol {
		if v > vol[center]+1e-12 {
			t.Fatalf("Voxel %d (%v) exceeds the center value", i, v)
		}
		if v < 0 {
			t.Fatalf("Voxel %d is negative: %v", i, v)
		}
	}
}
