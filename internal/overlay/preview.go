package overlay

import (
	"image"

	"golang.org/x/image/draw"
)

// ComposePreview renders frame into a new view-sized image the way t maps
// it: scaled to cover the view, centred, and mirrored when t is flipped.
// With a nil frame the preview is left black.
func ComposePreview(frame image.Image, t *ViewTransform) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, t.ViewWidth, t.ViewHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Black), image.Point{}, draw.Src)
	if frame == nil || frame.Bounds().Empty() {
		return dst
	}

	if t.Flipped {
		frame = mirror(frame)
	}

	sb := frame.Bounds()
	scaledW := int(t.Scale(float32(sb.Dx())) + 0.5)
	scaledH := int(t.Scale(float32(sb.Dy())) + 0.5)
	left := -int(t.offsetX + 0.5)
	top := -int(t.offsetY + 0.5)

	target := image.Rect(left, top, left+scaledW, top+scaledH)
	draw.ApproxBiLinear.Scale(dst, target, frame, sb, draw.Src, nil)
	return dst
}

// mirror flips an image horizontally
func mirror(src image.Image) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(b.Dx()-1-x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}
