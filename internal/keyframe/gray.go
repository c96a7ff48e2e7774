package keyframe

import (
	"image"
	"image/color"
)

// Grayscale converts img to 8-bit luma using the ITU-R 601 weights
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			src := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(b.Min.X-rgba.Rect.Min.X)*4:]
			dst := gray.Pix[y*gray.Stride:]
			for x := 0; x < b.Dx(); x++ {
				r, g, bl := uint32(src[x*4]), uint32(src[x*4+1]), uint32(src[x*4+2])
				dst[x] = uint8((19595*r + 38470*g + 7471*bl + 1<<15) >> 16)
			}
		}
		return gray
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}
	return gray
}

// Difference returns the mean absolute luma difference of a and b scaled to
// [0, 1]. Frames of different size are maximally different.
func Difference(a, b *image.Gray) float64 {
	wa, ha := a.Bounds().Dx(), a.Bounds().Dy()
	if wa != b.Bounds().Dx() || ha != b.Bounds().Dy() {
		return 1.0
	}
	if wa == 0 || ha == 0 {
		return 0
	}

	var sum uint64
	for y := 0; y < ha; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+wa]
		rb := b.Pix[y*b.Stride : y*b.Stride+wa]
		for x := range ra {
			if ra[x] > rb[x] {
				sum += uint64(ra[x] - rb[x])
			} else {
				sum += uint64(rb[x] - ra[x])
			}
		}
	}

	return float64(sum) / float64(wa*ha) / 255.0
}
