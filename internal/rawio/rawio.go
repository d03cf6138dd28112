// Package rawio reads and writes dense float64 volumes as little-endian
// binary files, with recording metadata carried in a YAML sidecar.
// This is the CLI's exchange format with external acquisition and
// display pipelines; the library API itself deals only in in-memory
// arrays.
package rawio

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Meta is the YAML sidecar describing a raw recording file.
type Meta struct {
	// Shape is the physical array shape of the raw file, outermost
	// axis first.
	Shape []int `yaml:"shape"`

	// AxisOrder names the logical layout of the shape, in the
	// dash-separated form understood by recording.ParseAxisOrder.
	AxisOrder string `yaml:"axisOrder"`

	// Spacing1, Spacing2 are the sensor spacings in meters.
	Spacing1 float64 `yaml:"spacing1"`
	Spacing2 float64 `yaml:"spacing2"`

	// Dt is the sampling interval in seconds.
	Dt float64 `yaml:"dt"`

	// SoundSpeed is the medium sound speed in m/s.
	SoundSpeed float64 `yaml:"soundSpeed"`
}

// ReadMeta loads a YAML metadata sidecar.
func ReadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading metadata file: %w", err)
	}

	meta := &Meta{}
	if err := yaml.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("error parsing metadata file: %w", err)
	}
	return meta, nil
}

// WriteMeta saves a YAML metadata sidecar, creating the directory if
// needed.
func WriteMeta(meta *Meta, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating metadata directory: %w", err)
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("error marshaling metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing metadata file: %w", err)
	}
	return nil
}

// ReadVolume loads a raw little-endian float64 file in full. The
// caller checks the sample count against its expected shape.
func ReadVolume(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening volume file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("error reading volume file: %w", err)
	}
	if info.Size()%8 != 0 {
		return nil, fmt.Errorf("volume file %s: size %d is not a multiple of 8 bytes", path, info.Size())
	}

	data := make([]float64, info.Size()/8)
	if err := binary.Read(file, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("error reading volume data: %w", err)
	}
	return data, nil
}

// WriteVolume saves samples as a raw little-endian float64 file,
// creating the directory if needed.
func WriteVolume(path string, data []float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating volume directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating volume file: %w", err)
	}
	defer file.Close()

	if err := binary.Write(file, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("error writing volume data: %w", err)
	}
	return nil
}
