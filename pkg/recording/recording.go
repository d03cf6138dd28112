// Package recording defines the planar boundary-pressure data model and
// the normalizer that brings caller-supplied arrays into the canonical
// (dim1, dim2, time) layout expected by the reconstruction engine.
package recording

import (
	"fmt"
	"math"
	"strings"
)

// AxisOrder describes which logical axis (dim1, dim2, time) occupies
// which physical axis of a caller-supplied array.
type AxisOrder int

const (
	// OrderDim1Dim2Time is the canonical layout: first spatial axis,
	// second spatial axis, time.
	OrderDim1Dim2Time AxisOrder = iota

	// OrderDim2Dim1Time has the two spatial axes swapped, the layout
	// produced by acquisition software that scans the second sensor
	// axis first.
	OrderDim2Dim1Time

	// OrderTimeDim1Dim2 is the time-major layout common for streamed
	// acquisitions, one full sensor frame per time sample.
	OrderTimeDim1Dim2
)

// String returns the tag in the dash-separated form accepted by
// ParseAxisOrder.
func (o AxisOrder) String() string {
	switch o {
	case OrderDim1Dim2Time:
		return "dim1-dim2-time"
	case OrderDim2Dim1Time:
		return "dim2-dim1-time"
	case OrderTimeDim1Dim2:
		return "time-dim1-dim2"
	default:
		return fmt.Sprintf("AxisOrder(%d)", int(o))
	}
}

// ParseAxisOrder converts a configuration string to an AxisOrder tag.
func ParseAxisOrder(s string) (AxisOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dim1-dim2-time", "":
		return OrderDim1Dim2Time, nil
	case "dim2-dim1-time":
		return OrderDim2Dim1Time, nil
	case "time-dim1-dim2":
		return OrderTimeDim1Dim2, nil
	default:
		return 0, fmt.Errorf("recording: unknown axis order %q", s)
	}
}

// permutation returns, for each logical axis (dim1, dim2, time), the
// physical axis position it occupies under this order. The second
// return is false for an unknown tag.
func (o AxisOrder) permutation() ([3]int, bool) {
	switch o {
	case OrderDim1Dim2Time:
		return [3]int{0, 1, 2}, true
	case OrderDim2Dim1Time:
		return [3]int{1, 0, 2}, true
	case OrderTimeDim1Dim2:
		return [3]int{1, 2, 0}, true
	default:
		return [3]int{}, false
	}
}

// Recording is a boundary-pressure recording in canonical layout: a
// dense row-major array indexed by (dim1, dim2, time), so that sample
// (i1, i2, it) lives at Data[(i1*N2+i2)*Nt+it].
//
// The recording is read-only to the reconstruction engine; callers
// retain ownership.
type Recording struct {
	// Data holds N1*N2*Nt pressure samples.
	Data []float64

	// N1, N2 are the sensor-plane axis lengths; Nt the time axis length.
	N1, N2, Nt int

	// Spacing1, Spacing2 are the sensor spacings in meters along the
	// two plane axes.
	Spacing1, Spacing2 float64

	// Dt is the sampling interval in seconds.
	Dt float64

	// SoundSpeed is the homogeneous medium sound speed in m/s.
	SoundSpeed float64
}

// At returns the sample at (i1, i2, it). No bounds checking beyond the
// slice access itself.
func (r *Recording) At(i1, i2, it int) float64 {
	return r.Data[(i1*r.N2+i2)*r.Nt+it]
}

// checkScalar validates a physical scalar parameter.
func checkScalar(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &ParameterError{Name: name, Value: v}
	}
	return nil
}

// Normalize validates a caller-supplied boundary recording and reorders
// it into the canonical (dim1, dim2, time) layout.
//
// data is the dense array in row-major order with physical shape given
// by shape; order declares which logical axis each physical axis holds.
// spacing1 and spacing2 are the sensor spacings along the logical dim1
// and dim2 axes (not the physical array axes), dt is the sampling
// interval and soundSpeed the medium sound speed.
//
// Normalize is a pure function: it copies data and never aliases the
// input. It fails with *ShapeError for a non-3-dimensional shape, an
// axis shorter than two samples, or a data length inconsistent with the
// shape, and with *ParameterError for a non-positive or non-finite
// scalar. All failures are detected before any transform work begins.
func Normalize(data []float64, shape []int, order AxisOrder, spacing1, spacing2, dt, soundSpeed float64) (*Recording, error) {
	if len(shape) != 3 {
		return nil, &ShapeError{
			Shape:  append([]int(nil), shape...),
			Reason: fmt.Sprintf("expected exactly 3 axes, got %d", len(shape)),
		}
	}

	perm, ok := order.permutation()
	if !ok {
		return nil, &ShapeError{
			Shape:  append([]int(nil), shape...),
			Reason: fmt.Sprintf("unknown axis order tag %d", int(order)),
		}
	}

	size := 1
	for axis, n := range shape {
		if n < 2 {
			return nil, &ShapeError{
				Shape:  append([]int(nil), shape...),
				Reason: fmt.Sprintf("axis %d has length %d, need at least 2", axis, n),
			}
		}
		size *= n
	}
	if len(data) != size {
		return nil, &ShapeError{
			Shape:  append([]int(nil), shape...),
			Reason: fmt.Sprintf("data length %d does not match shape product %d", len(data), size),
		}
	}

	if err := checkScalar("spacing1", spacing1); err != nil {
		return nil, err
	}
	if err := checkScalar("spacing2", spacing2); err != nil {
		return nil, err
	}
	if err := checkScalar("dt", dt); err != nil {
		return nil, err
	}
	if err := checkScalar("soundSpeed", soundSpeed); err != nil {
		return nil, err
	}

	// Logical axis lengths, read off the physical shape through the
	// permutation.
	n1 := shape[perm[0]]
	n2 := shape[perm[1]]
	nt := shape[perm[2]]

	// Physical row-major strides.
	strides := [3]int{shape[1] * shape[2], shape[2], 1}

	out := make([]float64, size)
	for i1 := 0; i1 < n1; i1++ {
		for i2 := 0; i2 < n2; i2++ {
			dst := (i1*n2 + i2) * nt
			src := i1*strides[perm[0]] + i2*strides[perm[1]]
			st := strides[perm[2]]
			for it := 0; it < nt; it++ {
				out[dst+it] = data[src+it*st]
			}
		}
	}

	return &Recording{
		Data:       out,
		N1:         n1,
		N2:         n2,
		Nt:         nt,
		Spacing1:   spacing1,
		Spacing2:   spacing2,
		Dt:         dt,
		SoundSpeed: soundSpeed,
	}, nil
}

// Validate re-checks the recording's invariants. The reconstruction
// engine calls this at its contract boundary so that a hand-built
// Recording fails as cleanly as one produced by Normalize.
func (r *Recording) Validate() error {
	if r.N1 < 2 || r.N2 < 2 || r.Nt < 2 {
		return &ShapeError{
			Shape:  []int{r.N1, r.N2, r.Nt},
			Reason: "every axis needs at least 2 samples",
		}
	}
	if len(r.Data) != r.N1*r.N2*r.Nt {
		return &ShapeError{
			Shape:  []int{r.N1, r.N2, r.Nt},
			Reason: fmt.Sprintf("data length %d does not match shape product %d", len(r.Data), r.N1*r.N2*r.Nt),
		}
	}
	if err := checkScalar("spacing1", r.Spacing1); err != nil {
		return err
	}
	if err := checkScalar("spacing2", r.Spacing2); err != nil {
		return err
	}
	if err := checkScalar("dt", r.Dt); err != nil {
		return err
	}
	return checkScalar("soundSpeed", r.SoundSpeed)
}
