// Package reconstruction implements FFT-based planar photoacoustic
// reconstruction: it recovers a three-dimensional initial-pressure
// distribution from time-resolved pressure recorded on a planar sensor
// array.
//
// The algorithm transforms the recording into a temporal-/spatial-
// frequency representation, remaps it onto the dispersion surface of
// the lossless wave equation, and inverse-transforms the result into a
// (depth, dim1, dim2) volume. One depth sample is produced per time
// sample, with depth spacing soundSpeed*dt.
package reconstruction

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"parecon3d/pkg/interpolation"
	"parecon3d/pkg/recording"
)

// halfSpaceFactor compensates for the one-sided recording geometry: a
// planar sensor sees only the outgoing half of the source energy. The
// value is pinned by the point-source depth-recovery test.
const halfSpaceFactor = 2.0

// defaultEvanescentWarnFraction is the discarded-sample fraction above
// which the result is flagged as likely degraded.
const defaultEvanescentWarnFraction = 0.5

// Options is the engine's configuration value object. The zero value
// selects linear interpolation, no positivity constraint, no progress
// output, all CPU cores, and the default warning threshold.
type Options struct {
	// Interpolation selects the kernel for the dispersion-relation
	// remapping step.
	Interpolation interpolation.Method

	// Positivity clamps negative output voxels to zero, encoding the
	// physical prior that initial pressure sources are non-negative.
	Positivity bool

	// EmitProgress prints per-stage wall-clock timings. Informational
	// only; never affects results.
	EmitProgress bool

	// NumWorkers bounds the fork-join parallelism of the transform and
	// remapping stages. Zero means runtime.NumCPU().
	NumWorkers int

	// EvanescentWarnFraction overrides the discarded-sample fraction
	// above which a degraded-result warning is issued. Zero means the
	// default of 0.5.
	EvanescentWarnFraction float64
}

// Diagnostics reports timing and discard accounting for one
// reconstruction. All fields are informational.
type Diagnostics struct {
	// Elapsed is the total wall-clock time of the reconstruction.
	Elapsed time.Duration

	// ForwardTime, RemapTime and InverseTime are the stage timings.
	ForwardTime time.Duration
	RemapTime   time.Duration
	InverseTime time.Duration

	// EvanescentDiscarded counts nonzero frequency-domain samples that
	// fell in the evanescent region and were zeroed.
	EvanescentDiscarded int

	// TotalSamples is the size of the frequency volume.
	TotalSamples int

	// Degraded is set when the discarded fraction exceeded the warning
	// threshold; the result is still returned.
	Degraded bool

	// Interpolation records the kernel that was used.
	Interpolation interpolation.Method
}

// EvanescentFraction returns the discarded fraction of the frequency
// volume.
func (d *Diagnostics) EvanescentFraction() float64 {
	if d.TotalSamples == 0 {
		return 0
	}
	return float64(d.EvanescentDiscarded) / float64(d.TotalSamples)
}

// Volume is a reconstructed initial-pressure volume in row-major
// (depth, dim1, dim2) order: voxel (iz, i1, i2) lives at
// Data[(iz*N1+i1)*N2+i2].
type Volume struct {
	Data []float64

	// NDepth equals the time-axis length of the recording; N1 and N2
	// match the sensor plane.
	NDepth, N1, N2 int

	// SpacingDepth is soundSpeed*dt; Spacing1 and Spacing2 carry over
	// from the recording.
	SpacingDepth, Spacing1, Spacing2 float64
}

// At returns the voxel at (iz, i1, i2).
func (v *Volume) At(iz, i1, i2 int) float64 {
	return v.Data[(iz*v.N1+i1)*v.N2+i2]
}

// Reconstructor runs planar k-space reconstructions with a fixed set
// of options. It holds no per-call state and is safe for concurrent
// use; each Reconstruct call owns its working memory exclusively.
type Reconstructor struct {
	opts Options
}

// NewReconstructor creates an engine with the given options.
func NewReconstructor(opts Options) *Reconstructor {
	return &Reconstructor{opts: opts}
}

// Reconstruct recovers the initial-pressure volume from a canonical
// boundary recording. The recording is read-only to the engine.
//
// Peak working memory is one complex128 volume of the input size (16
// bytes per sample) plus a few O(Nt) scratch buffers per worker; inputs
// large enough to make that a concern should be split by the caller
// rather than reconstructed in one arena.
//
// The returned Diagnostics is always non-nil when err is nil. A high
// evanescent-discard fraction flags the result as degraded and prints a
// warning, but reconstruction still completes: evanescent samples are
// expected, physically meaningful discards, not defects.
func (r *Reconstructor) Reconstruct(rec *recording.Recording) (*Volume, *Diagnostics, error) {
	if rec == nil {
		return nil, nil, fmt.Errorf("reconstruction: nil recording")
	}
	if err := rec.Validate(); err != nil {
		return nil, nil, err
	}

	workers := r.opts.NumWorkers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	warnFraction := r.opts.EvanescentWarnFraction
	if warnFraction <= 0 {
		warnFraction = defaultEvanescentWarnFraction
	}

	n1, n2, nt := rec.N1, rec.N2, rec.Nt
	c := rec.SoundSpeed

	diag := &Diagnostics{
		TotalSamples:  n1 * n2 * nt,
		Interpolation: r.opts.Interpolation,
	}
	start := time.Now()

	// Stage 1: forward 3D FFT of the recording.
	vol := make([]complex128, n1*n2*nt)
	for i, v := range rec.Data {
		vol[i] = complex(v, 0)
	}
	fft3D(vol, n1, n2, nt, false, workers)
	diag.ForwardTime = time.Since(start)
	if r.opts.EmitProgress {
		fmt.Printf("Forward FFT: %v\n", diag.ForwardTime)
	}

	// Stages 2-5: dispersion-relation remapping, per (kx, ky) column.
	remapStart := time.Now()
	diag.EvanescentDiscarded = r.remap(vol, rec, workers)
	diag.RemapTime = time.Since(remapStart)
	if r.opts.EmitProgress {
		fmt.Printf("Dispersion remap: %v\n", diag.RemapTime)
	}

	// Stage 6: inverse 3D FFT; the real part is the reconstruction.
	invStart := time.Now()
	fft3D(vol, n1, n2, nt, true, workers)
	scale := 1.0 / float64(n1*n2*nt)

	out := &Volume{
		Data:         make([]float64, n1*n2*nt),
		NDepth:       nt,
		N1:           n1,
		N2:           n2,
		SpacingDepth: c * rec.Dt,
		Spacing1:     rec.Spacing1,
		Spacing2:     rec.Spacing2,
	}
	for i1 := 0; i1 < n1; i1++ {
		for i2 := 0; i2 < n2; i2++ {
			src := (i1*n2 + i2) * nt
			for iz := 0; iz < nt; iz++ {
				out.Data[(iz*n1+i1)*n2+i2] = real(vol[src+iz]) * scale
			}
		}
	}
	diag.InverseTime = time.Since(invStart)
	if r.opts.EmitProgress {
		fmt.Printf("Inverse FFT: %v\n", diag.InverseTime)
	}

	// Stage 7: optional positivity constraint.
	if r.opts.Positivity {
		for i, v := range out.Data {
			if v < 0 {
				out.Data[i] = 0
			}
		}
	}

	diag.Elapsed = time.Since(start)

	if diag.EvanescentFraction() > warnFraction {
		diag.Degraded = true
		fmt.Printf("Warning: %.1f%% of frequency samples were evanescent and discarded; "+
			"the recording duration or sampling is likely inconsistent with the reconstruction depth range\n",
			diag.EvanescentFraction()*100)
	}

	return out, diag, nil
}

// remap rewrites the frequency volume in place: for every (kx, ky)
// column it zeroes evanescent samples, resamples the temporal-frequency
// axis onto the depth-wavenumber grid implied by the dispersion
// relation omega = c*|k|, and applies the Jacobian and half-space
// scaling. It returns the number of discarded nonzero evanescent
// samples.
//
// Columns are independent, so they are fanned out over workers with no
// shared state beyond the disjoint column storage each owns.
func (r *Reconstructor) remap(vol []complex128, rec *recording.Recording, workers int) int {
	n1, n2, nt := rec.N1, rec.N2, rec.Nt
	c := rec.SoundSpeed

	dkx := 2 * math.Pi / (float64(n1) * rec.Spacing1)
	dky := 2 * math.Pi / (float64(n2) * rec.Spacing2)
	dw := 2 * math.Pi / (float64(nt) * rec.Dt)
	// Depth grid: dz = c*dt, so dkz = dw/c and the kz bins share the
	// temporal-frequency indexing.
	dkz := dw / c

	// Ascending-frequency ordering of the FFT bins. Sorted position j
	// holds signed frequency index j - nt/2.
	fftIdx := make([]int, nt)
	for j := 0; j < nt; j++ {
		f := j - nt/2
		fftIdx[j] = (f + nt) % nt
	}
	wMin := float64(-(nt / 2)) * dw

	resampler := interpolation.NewResampler(r.opts.Interpolation)

	columns := n1 * n2
	if workers > columns {
		workers = columns
	}
	chunk := (columns + workers - 1) / workers

	counts := make([]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		startCol := w * chunk
		endCol := startCol + chunk
		if endCol > columns {
			endCol = columns
		}
		if startCol >= endCol {
			break
		}

		wg.Add(1)
		go func(worker, startCol, endCol int) {
			defer wg.Done()

			sorted := make([]complex128, nt)
			remapped := make([]complex128, nt)
			discarded := 0

			for col := startCol; col < endCol; col++ {
				i1 := col / n2
				i2 := col % n2
				kx := float64(freqIndex(i1, n1)) * dkx
				ky := float64(freqIndex(i2, n2)) * dky
				kr2 := kx*kx + ky*ky
				base := col * nt

				// Reorder the column to ascending omega.
				for j := 0; j < nt; j++ {
					sorted[j] = vol[base+fftIdx[j]]
				}

				// Evanescent discard: |omega| < c*sqrt(kx^2+ky^2)
				// corresponds to an imaginary depth wavenumber and
				// carries no propagating energy.
				for j := 0; j < nt; j++ {
					omega := wMin + float64(j)*dw
					if omega*omega < c*c*kr2 {
						if sorted[j] != 0 {
							discarded++
						}
						sorted[j] = 0
					}
				}

				// Resample onto the kz grid and weight. The Jacobian
				// |domega/dkz|/c = |kz|/|k| preserves amplitude under
				// the nonlinear axis change; the k = 0 sample is zeroed
				// to avoid the singular Jacobian.
				for j := 0; j < nt; j++ {
					kz := float64(j-nt/2) * dkz
					k2 := kr2 + kz*kz
					if k2 == 0 {
						remapped[j] = 0
						continue
					}
					wq := c * math.Copysign(math.Sqrt(k2), kz)
					pos := (wq - wMin) / dw
					weight := halfSpaceFactor * math.Abs(kz) / math.Sqrt(k2)
					remapped[j] = resampler.Sample(sorted, pos) * complex(weight, 0)
				}

				// Back to FFT bin order.
				for j := 0; j < nt; j++ {
					vol[base+fftIdx[j]] = remapped[j]
				}
			}

			counts[worker] = discarded
		}(w, startCol, endCol)
	}
	wg.Wait()

	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
