package overlay

// Transform maps detector-space values onto the overlay surface.
type Transform interface {
	TranslateX(x float32) float32
	TranslateY(y float32) float32
	Scale(v float32) float32
}

// ViewTransform maps an image of ImageWidth x ImageHeight onto a view of
// ViewWidth x ViewHeight the way a fill-center camera preview does: the image
// is scaled to cover the view and the overflow is cropped evenly on both
// sides. Flipped mirrors the x axis for front-facing cameras.
type ViewTransform struct {
	ImageWidth, ImageHeight int
	ViewWidth, ViewHeight   int
	Flipped                 bool

	scaleFactor float32
	offsetX     float32
	offsetY     float32
}

// NewViewTransform computes the scale factor and crop offsets once.
func NewViewTransform(imageW, imageH, viewW, viewH int, flipped bool) *ViewTransform {
	t := &ViewTransform{
		ImageWidth:  imageW,
		ImageHeight: imageH,
		ViewWidth:   viewW,
		ViewHeight:  viewH,
		Flipped:     flipped,
		scaleFactor: 1,
	}
	if imageW <= 0 || imageH <= 0 || viewW <= 0 || viewH <= 0 {
		return t
	}

	viewAspect := float32(viewW) / float32(viewH)
	imageAspect := float32(imageW) / float32(imageH)

	if viewAspect > imageAspect {
		// image is taller than the view: crop top and bottom
		t.scaleFactor = float32(viewW) / float32(imageW)
		t.offsetY = (float32(viewW)/imageAspect - float32(viewH)) / 2
	} else {
		// image is wider than the view: crop left and right
		t.scaleFactor = float32(viewH) / float32(imageH)
		t.offsetX = (float32(viewH)*imageAspect - float32(viewW)) / 2
	}
	return t
}

// ScaleFactor is the ratio of view pixels to image pixels.
func (t *ViewTransform) ScaleFactor() float32 { return t.scaleFactor }

func (t *ViewTransform) Scale(v float32) float32 {
	return v * t.scaleFactor
}

func (t *ViewTransform) TranslateX(x float32) float32 {
	if t.Flipped {
		return float32(t.ViewWidth) - (t.Scale(x) - t.offsetX)
	}
	return t.Scale(x) - t.offsetX
}

func (t *ViewTransform) TranslateY(y float32) float32 {
	return t.Scale(y) - t.offsetY
}
