package face

import (
	"image"
	"math"
)

// distance calculates Euclidean distance between two points
func distance(p1, p2 Point) float32 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// toGrayscale converts image to grayscale pixel array
func toGrayscale(img image.Image) []uint8 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	gray := make([]uint8, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Standard grayscale conversion formula
			gray[y*w+x] = uint8((r*299 + g*587 + b*114) / 1000 >> 8)
		}
	}

	return gray
}

// toRGB converts image to packed RGB bytes, row-major, shape (H, W, 3)
func toRGB(img image.Image) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]byte, 0, w*h*3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out = append(out, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}

	return out
}
