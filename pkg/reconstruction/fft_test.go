package reconstruction

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

func TestFFT3DRoundTrip(t *testing.T) {
	n1, n2, n3 := 4, 6, 8
	rng := rand.New(rand.NewSource(1))

	vol := make([]complex128, n1*n2*n3)
	orig := make([]complex128, len(vol))
	for i := range vol {
		vol[i] = complex(rng.NormFloat64(), rng.NormFloat64())
		orig[i] = vol[i]
	}

	fft3D(vol, n1, n2, n3, false, 3)
	fft3D(vol, n1, n2, n3, true, 3)

	scale := 1.0 / float64(n1*n2*n3)
	for i := range vol {
		if cmplx.Abs(vol[i]*complex(scale, 0)-orig[i]) > 1e-10 {
			t.Fatalf("Round trip mismatch at %d: got %v, want %v", i, vol[i]*complex(scale, 0), orig[i])
		}
	}
}

// A single complex exponential concentrates in exactly one FFT bin.
func TestFFT3DPlaneWave(t *testing.T) {
	n1, n2, n3 := 4, 4, 8
	f1, f2, f3 := 1, 3, 5

	vol := make([]complex128, n1*n2*n3)
	for i1 := 0; i1 < n1; i1++ {
		for i2 := 0; i2 < n2; i2++ {
			for i3 := 0; i3 < n3; i3++ {
				phase := 2 * math.Pi * (float64(f1*i1)/float64(n1) +
					float64(f2*i2)/float64(n2) +
					float64(f3*i3)/float64(n3))
				vol[(i1*n2+i2)*n3+i3] = cmplx.Exp(complex(0, phase))
			}
		}
	}

	fft3D(vol, n1, n2, n3, false, 2)

	want := float64(n1 * n2 * n3)
	for i1 := 0; i1 < n1; i1++ {
		for i2 := 0; i2 < n2; i2++ {
			for i3 := 0; i3 < n3; i3++ {
				got := cmplx.Abs(vol[(i1*n2+i2)*n3+i3])
				expected := 0.0
				if i1 == f1 && i2 == f2 && i3 == f3 {
					expected = want
				}
				if math.Abs(got-expected) > 1e-9 {
					t.Fatalf("Bin (%d,%d,%d) magnitude %v, want %v", i1, i2, i3, got, expected)
				}
			}
		}
	}
}

func TestFFT3DWorkerCountInvariance(t *testing.T) {
	n1, n2, n3 := 5, 3, 7
	rng := rand.New(rand.NewSource(2))

	a := make([]complex128, n1*n2*n3)
	b := make([]complex128, len(a))
	for i := range a {
		a[i] = complex(rng.NormFloat64(), 0)
		b[i] = a[i]
	}

	fft3D(a, n1, n2, n3, false, 1)
	fft3D(b, n1, n2, n3, false, 8)

	for i := range a {
		if cmplx.Abs(a[i]-b[i]) > 1e-12 {
			t.Fatalf("Worker count changed result at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestFreqIndex(t *testing.T) {
	cases := []struct {
		i, n, want int
	}{
		{0, 8, 0},
		{3, 8, 3},
		{4, 8, -4},
		{7, 8, -1},
		{0, 5, 0},
		{2, 5, 2},
		{3, 5, -2},
		{4, 5, -1},
	}

	for _, c := range cases {
		if got := freqIndex(c.i, c.n); got != c.want {
			t.Errorf("freqIndex(%d, %d) = %d, want %d", c.i, c.n, got, c.want)
		}
	}
}
