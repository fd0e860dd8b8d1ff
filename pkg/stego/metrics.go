package stego

import (
	"math"

	"github.com/jpfielding/pgmsteg.go/pkg/pgm"
)

// MSE returns the mean squared error between two equal-size rasters
func MSE(a, b *pgm.Raster) (float64, error) {
	if err := checkPair(a, b); err != nil {
		return 0, err
	}
	if len(a.Pix) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range a.Pix {
		diff := float64(a.Pix[i]) - float64(b.Pix[i])
		sum += diff * diff
	}
	return sum / float64(len(a.Pix)), nil
}

// PSNR returns the peak signal-to-noise ratio in dB, +Inf for identical rasters.
// PSNR = 20 * log10(255 / sqrt(MSE))
func PSNR(a, b *pgm.Raster) (float64, error) {
	mse, err := MSE(a, b)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 20 * math.Log10(pgm.MaxVal/math.Sqrt(mse)), nil
}
