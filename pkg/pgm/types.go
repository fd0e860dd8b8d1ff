package pgm

import (
	"bytes"
	"fmt"
)

// MaxVal is the only maximum sample value written by this package.
const MaxVal = 255

// MaxSamples caps Width*Height for any raster this package allocates (1 GiB).
const MaxSamples = 1 << 30

// fits reports whether a width x height raster stays within MaxSamples.
// Checked by division so huge dimensions cannot wrap the product.
func fits(width, height int) bool {
	if width < 0 || height < 0 {
		return false
	}
	return height == 0 || width <= MaxSamples/height
}

// Raster is a single channel 8-bit image.
// Samples are stored row-major: index = y*Width + x.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster creates a zeroed raster with the specified dimensions.
// Negative or oversized dimensions yield an empty raster.
func NewRaster(width, height int) *Raster {
	if !fits(width, height) {
		width, height = 0, 0
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// FromPix wraps pix as a raster, failing when len(pix) != width*height.
// The slice is not copied.
func FromPix(width, height int, pix []uint8) (*Raster, error) {
	img := &Raster{Width: width, Height: height, Pix: pix}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Validate checks the raster invariant
func (img *Raster) Validate() error {
	if img == nil {
		return fmt.Errorf("pgm: nil raster: %w", ErrFormat)
	}
	if img.Width < 0 || img.Height < 0 {
		return fmt.Errorf("pgm: negative dimensions %dx%d: %w", img.Width, img.Height, ErrDimensionMismatch)
	}
	if !fits(img.Width, img.Height) {
		return fmt.Errorf("pgm: %dx%d exceeds %d samples: %w", img.Width, img.Height, MaxSamples, ErrFormat)
	}
	if len(img.Pix) != img.Width*img.Height {
		return fmt.Errorf("pgm: %dx%d raster holds %d samples: %w",
			img.Width, img.Height, len(img.Pix), ErrDimensionMismatch)
	}
	return nil
}

// At returns the sample at (x, y), or 0 outside the raster
func (img *Raster) At(x, y int) uint8 {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return 0
	}
	return img.Pix[y*img.Width+x]
}

// Set sets the sample at (x, y); writes outside the raster are dropped
func (img *Raster) Set(x, y int, v uint8) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	img.Pix[y*img.Width+x] = v
}

// Row returns the samples of row y, sharing storage with the raster
func (img *Raster) Row(y int) []uint8 {
	if y < 0 || y >= img.Height {
		return nil
	}
	return img.Pix[y*img.Width : (y+1)*img.Width]
}

// Clone returns a deep copy
func (img *Raster) Clone() *Raster {
	out := &Raster{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	copy(out.Pix, img.Pix)
	return out
}

// SameSize reports whether both rasters have identical dimensions
func (img *Raster) SameSize(o *Raster) bool {
	return img.Width == o.Width && img.Height == o.Height
}

// Equal reports whether both rasters have identical dimensions and samples
func (img *Raster) Equal(o *Raster) bool {
	return img.SameSize(o) && bytes.Equal(img.Pix, o.Pix)
}

// MinMax returns the min and max sample values
func (img *Raster) MinMax() (uint8, uint8) {
	if len(img.Pix) == 0 {
		return 0, 0
	}
	minVal, maxVal := img.Pix[0], img.Pix[0]
	for _, v := range img.Pix {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func (img *Raster) String() string {
	return fmt.Sprintf("Raster(%dx%d)", img.Width, img.Height)
}

// Header is the metadata in front of the sample data.
// It is only used to validate the stream and size the raster.
type Header struct {
	Variant  Variant
	Comments []string
	Width    int
	Height   int
	MaxVal   int
}

func (h *Header) String() string {
	return fmt.Sprintf("%s %dx%d maxval=%d comments=%d", h.Variant.Magic(), h.Width, h.Height, h.MaxVal, len(h.Comments))
}
