// Package stego hides one 8-bit grayscale image inside another by bit-plane
// substitution: the cover keeps its high nibble and carries the secret's high
// nibble in its low nibble.
//
// Embedding is lossy in both directions. The cover loses its low nibble and
// only 16 intensity levels of the secret survive, so Extract(Embed(c, s))
// equals Quantize(s), not s.
package stego

import (
	"fmt"

	"github.com/jpfielding/pgmsteg.go/pkg/pgm"
)

const (
	highNibble = 0xF0
	lowNibble  = 0x0F
)

// ErrDimensionMismatch is returned when the rasters differ in size
var ErrDimensionMismatch = pgm.ErrDimensionMismatch

// Embed returns a new raster carrying the high nibble of secret in the low nibble of cover.
// Neither input is modified.
func Embed(cover, secret *pgm.Raster) (*pgm.Raster, error) {
	if err := checkPair(cover, secret); err != nil {
		return nil, err
	}
	out := pgm.NewRaster(cover.Width, cover.Height)
	for i, c := range cover.Pix {
		out.Pix[i] = (c & highNibble) | ((secret.Pix[i] & highNibble) >> 4)
	}
	return out, nil
}

// Extract recovers the embedded nibble of every sample, shifted back to the high position.
// Samples past Width*Height are ignored; missing ones come back as 0.
func Extract(stego *pgm.Raster) *pgm.Raster {
	out := pgm.NewRaster(stego.Width, stego.Height)
	for i, v := range samples(stego, out) {
		out.Pix[i] = (v & lowNibble) << 4
	}
	return out
}

// Quantize drops the low nibble of every sample, the best Extract can recover
func Quantize(img *pgm.Raster) *pgm.Raster {
	out := pgm.NewRaster(img.Width, img.Height)
	for i, v := range samples(img, out) {
		out.Pix[i] = v & highNibble
	}
	return out
}

// samples returns the part of src.Pix that fits in out
func samples(src, out *pgm.Raster) []uint8 {
	return src.Pix[:min(len(src.Pix), len(out.Pix))]
}

func checkPair(a, b *pgm.Raster) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if !a.SameSize(b) {
		return fmt.Errorf("stego: %dx%d vs %dx%d: %w", a.Width, a.Height, b.Width, b.Height, ErrDimensionMismatch)
	}
	return nil
}
