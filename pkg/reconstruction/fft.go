package reconstruction

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// fft3D transforms a dense complex volume along all three axes in
// place. The volume is row-major with index (i1*n2+i2)*n3+i3. The
// inverse transform is unnormalized, matching gonum's convention; the
// caller applies the 1/(n1*n2*n3) factor.
//
// Lines along each axis are independent, so they are distributed over
// workers goroutines; every worker owns its own FFT plan and scratch
// buffers.
func fft3D(vol []complex128, n1, n2, n3 int, inverse bool, workers int) {
	// Time/depth axis: contiguous lines of length n3.
	transformLines(vol, n3, n1*n2, 1, func(line int) int {
		return line * n3
	}, inverse, workers)

	// Second spatial axis: stride n3, one line per (i1, i3) pair.
	transformLines(vol, n2, n1*n3, n3, func(line int) int {
		i1 := line / n3
		i3 := line % n3
		return i1*n2*n3 + i3
	}, inverse, workers)

	// First spatial axis: stride n2*n3, one line per (i2, i3) pair.
	transformLines(vol, n1, n2*n3, n2*n3, func(line int) int {
		return line
	}, inverse, workers)
}

// transformLines runs a 1-D complex FFT over numLines strided lines of
// the volume, fanning the line range out across workers.
func transformLines(vol []complex128, length, numLines, stride int, base func(line int) int, inverse bool, workers int) {
	if workers < 1 {
		workers = 1
	}
	if workers > numLines {
		workers = numLines
	}
	chunk := (numLines + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > numLines {
			end = numLines
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			fft := fourier.NewCmplxFFT(length)
			in := make([]complex128, length)
			out := make([]complex128, length)

			for line := start; line < end; line++ {
				off := base(line)
				for i := 0; i < length; i++ {
					in[i] = vol[off+i*stride]
				}
				if inverse {
					fft.Sequence(out, in)
				} else {
					fft.Coefficients(out, in)
				}
				for i := 0; i < length; i++ {
					vol[off+i*stride] = out[i]
				}
			}
		}(start, end)
	}
	wg.Wait()
}

// freqIndex maps an FFT bin to its signed frequency index, following
// the standard DFT ordering where bins above n/2 hold the negative
// frequencies.
func freqIndex(i, n int) int {
	if i <= (n-1)/2 {
		return i
	}
	return i - n
}
