package pgm

import (
	"image"
	"image/color"
)

// Gray returns the raster as an *image.Gray sharing the sample storage
func (img *Raster) Gray() *image.Gray {
	return &image.Gray{
		Pix:    img.Pix,
		Stride: img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// FromImage converts any image to an 8-bit raster using the standard gray model
func FromImage(src image.Image) *Raster {
	b := src.Bounds()
	out := NewRaster(b.Dx(), b.Dy())
	if g, ok := src.(*image.Gray); ok {
		for y := 0; y < out.Height; y++ {
			start := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Row(y), g.Pix[start:start+out.Width])
		}
		return out
	}
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out.Pix[y*out.Width+x] = c.Y
		}
	}
	return out
}
