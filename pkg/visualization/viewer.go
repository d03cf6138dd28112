// Package visualization extracts and exports 2D slices of a
// reconstructed pressure volume for inspection by an external display
// pipeline. Pressure is signed, so slices are rendered with a
// symmetric gray map: zero pressure is mid-gray, the largest magnitude
// in the volume maps to black/white.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
)

// Viewer renders slices of a (depth, dim1, dim2) volume.
type Viewer struct {
	// volumeData holds the reconstructed volume, row-major
	// (depth, dim1, dim2).
	volumeData []float64

	// dimensions of the volume
	nDepth int
	n1     int
	n2     int

	// peak is the largest absolute value in the volume, used for the
	// symmetric normalization. Zero for an all-zero volume.
	peak float64
}

// NewViewer creates a viewer over the given volume data.
func NewViewer(volumeData []float64, nDepth, n1, n2 int) *Viewer {
	v := &Viewer{
		volumeData: volumeData,
		nDepth:     nDepth,
		n1:         n1,
		n2:         n2,
	}
	for _, s := range volumeData {
		if a := math.Abs(s); a > v.peak {
			v.peak = a
		}
	}
	return v
}

// gray maps a signed pressure value to a 16-bit gray level.
func (v *Viewer) gray(value float64) color.Gray16 {
	if v.peak == 0 {
		return color.Gray16{Y: 32767}
	}
	norm := 0.5 + value/(2*v.peak)
	level := math.Max(0, math.Min(65535, norm*65535))
	return color.Gray16{Y: uint16(level)}
}

// ExtractSlice extracts a 2D slice perpendicular to the named axis
// ("depth", "dim1" or "dim2") at the given index.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.Gray16

	switch axis {
	case "depth":
		if position >= v.nDepth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.nDepth)
		}

		img = image.NewGray16(image.Rect(0, 0, v.n2, v.n1))
		for i1 := 0; i1 < v.n1; i1++ {
			for i2 := 0; i2 < v.n2; i2++ {
				img.SetGray16(i2, i1, v.gray(v.volumeData[(position*v.n1+i1)*v.n2+i2]))
			}
		}

	case "dim1":
		if position >= v.n1 {
			return nil, fmt.Errorf("position %d exceeds dim1 extent %d", position, v.n1)
		}

		img = image.NewGray16(image.Rect(0, 0, v.n2, v.nDepth))
		for iz := 0; iz < v.nDepth; iz++ {
			for i2 := 0; i2 < v.n2; i2++ {
				img.SetGray16(i2, iz, v.gray(v.volumeData[(iz*v.n1+position)*v.n2+i2]))
			}
		}

	case "dim2":
		if position >= v.n2 {
			return nil, fmt.Errorf("position %d exceeds dim2 extent %d", position, v.n2)
		}

		img = image.NewGray16(image.Rect(0, 0, v.n1, v.nDepth))
		for iz := 0; iz < v.nDepth; iz++ {
			for i1 := 0; i1 < v.n1; i1++ {
				img.SetGray16(i1, iz, v.gray(v.volumeData[(iz*v.n1+i1)*v.n2+position]))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be depth, dim1 or dim2)", axis)
	}

	return img, nil
}

// SaveSlice saves an extracted slice as a JPEG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves all slices along the specified
// axis into outputDir.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "depth":
		maxPos = v.nDepth
	case "dim1":
		maxPos = v.n1
	case "dim2":
		maxPos = v.n2
	default:
		return fmt.Errorf("invalid axis: %s (must be depth, dim1 or dim2)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
