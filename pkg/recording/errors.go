package recording

import "fmt"

// ShapeError reports an input array whose dimensionality or axis lengths
// are inconsistent with the declared layout. It is unrecoverable: the
// normalizer surfaces it before any transform work begins.
type ShapeError struct {
	// Shape is the physical shape as supplied by the caller.
	Shape []int

	// Reason describes the violated constraint.
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("recording: invalid shape %v: %s", e.Shape, e.Reason)
}

// ParameterError reports a scalar physical parameter that is not a
// strictly positive finite number.
type ParameterError struct {
	// Name is the parameter that failed validation.
	Name string

	// Value is the offending value.
	Value float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("recording: parameter %s = %v: must be a strictly positive finite number", e.Name, e.Value)
}
