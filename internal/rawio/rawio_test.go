package rawio

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestVolumeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vol.raw")

	rng := rand.New(rand.NewSource(5))
	data := make([]float64, 3*4*5)
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	if err := WriteVolume(path, data); err != nil {
		t.Fatalf("WriteVolume failed: %v", err)
	}

	got, err := ReadVolume(path)
	if err != nil {
		t.Fatalf("ReadVolume failed: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("Expected %d samples, got %d", len(data), len(got))
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("Sample %d = %v, want %v", i, got[i], data[i])
		}
	}
}

func TestMetaRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.yaml")

	meta := &Meta{
		Shape:      []int{16, 16, 128},
		AxisOrder:  "time-dim1-dim2",
		Spacing1:   1e-4,
		Spacing2:   2e-4,
		Dt:         40e-9,
		SoundSpeed: 1500,
	}

	if err := WriteMeta(meta, path); err != nil {
		t.Fatalf("WriteMeta failed: %v", err)
	}

	got, err := ReadMeta(path)
	if err != nil {
		t.Fatalf("ReadMeta failed: %v", err)
	}

	if got.AxisOrder != meta.AxisOrder || got.SoundSpeed != meta.SoundSpeed ||
		got.Dt != meta.Dt || got.Spacing1 != meta.Spacing1 || got.Spacing2 != meta.Spacing2 {
		t.Fatalf("Metadata mismatch: got %+v, want %+v", got, meta)
	}
	if len(got.Shape) != 3 || got.Shape[0] != 16 || got.Shape[2] != 128 {
		t.Fatalf("Shape mismatch: got %v", got.Shape)
	}
}

func TestReadVolumeErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadVolume(filepath.Join(dir, "missing.raw")); err == nil {
		t.Error("Expected error for missing file")
	}

	// A file whose size is not a multiple of 8 cannot hold float64s.
	ragged := filepath.Join(dir, "ragged.raw")
	if err := os.WriteFile(ragged, []byte{1, 2, 3}, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	if _, err := ReadVolume(ragged); err == nil {
		t.Error("Expected error for ragged file size")
	}
}

func TestReadMetaMissing(t *testing.T) {
	if _, err := ReadMeta(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing metadata file")
	}
}
