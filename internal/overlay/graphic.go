package overlay

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"face-overlay/internal/services/face"
)

const (
	facePositionRadius = 8.0
	markerRadius       = 30.0
	idTextSize         = 30.0
	boxStrokeWidth     = 5.0

	// DefaultMarkerInterval is how often the decorative marker dot is redrawn.
	DefaultMarkerInterval = 10 * time.Second
)

// Options configure a FaceGraphic.
type Options struct {
	// MarkerEnabled turns on the periodic random marker dot. It has nothing
	// to do with the detected face and exists for demo builds.
	MarkerEnabled  bool
	MarkerInterval time.Duration

	// DrawBoxes renders the bounding box and tracking id label. The layout is
	// computed either way.
	DrawBoxes bool

	// Guides replaces DefaultGuides when non-nil.
	Guides []Guide

	Rand *rand.Rand
}

// Layout is the scaled bounding box of a face on the surface together with
// the label offset and palette slot chosen from its tracking id.
type Layout struct {
	Left, Top, Right, Bottom float32
	LabelOffset              float32
	ColorIndex               int
}

// ComputeLayout positions a face's box around its translated center.
func ComputeLayout(f *face.FaceDetection, t Transform) Layout {
	c := f.Center()
	x := t.TranslateX(c.X)
	y := t.TranslateY(c.Y)

	halfW := t.Scale(f.Width / 2)
	halfH := t.Scale(f.Height / 2)

	l := Layout{
		Left:       x - halfW,
		Top:        y - halfH,
		Right:      x + halfW,
		Bottom:     y + halfH,
		ColorIndex: ColorIndex(f.TrackingID),
	}
	if f.TrackingID != nil {
		l.LabelOffset = -(idTextSize + boxStrokeWidth)
	}
	return l
}

// FaceGraphic draws the annotations for one face. The face is replaced
// wholesale with SetFace, typically from the detection goroutine, and read
// once per Draw.
type FaceGraphic struct {
	face atomic.Pointer[face.FaceDetection]

	opts        Options
	guides      []Guide
	positionPnt Paint
	guidePnt    Paint

	mu           sync.Mutex
	transform    Transform
	rng          *rand.Rand
	lastMarkerMs int64
}

// NewFaceGraphic creates a graphic drawing through the given transform.
func NewFaceGraphic(t Transform, opts Options) *FaceGraphic {
	if opts.MarkerInterval <= 0 {
		opts.MarkerInterval = DefaultMarkerInterval
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	guides := opts.Guides
	if guides == nil {
		guides = DefaultGuides
	}

	return &FaceGraphic{
		opts:        opts,
		guides:      guides,
		positionPnt: Paint{Color: White, Style: Fill},
		guidePnt:    Paint{Color: Gray, Style: Fill},
		transform:   t,
		rng:         rng,
	}
}

// SetFace publishes the latest detection result. nil clears the graphic.
func (g *FaceGraphic) SetFace(f *face.FaceDetection) {
	g.face.Store(f)
}

// Face returns the current detection result.
func (g *FaceGraphic) Face() *face.FaceDetection {
	return g.face.Load()
}

// SetTransform swaps the host coordinate mapping, e.g. after the preview
// size changed.
func (g *FaceGraphic) SetTransform(t Transform) {
	g.mu.Lock()
	g.transform = t
	g.mu.Unlock()
}

// LastMarkerMillis is the time of the last marker draw in Unix milliseconds,
// or 0 if none was drawn.
func (g *FaceGraphic) LastMarkerMillis() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastMarkerMs
}

// Draw renders the current face onto s. With no face it draws nothing.
func (g *FaceGraphic) Draw(s Surface, now time.Time) {
	f := g.face.Load()
	if f == nil {
		return
	}

	g.mu.Lock()
	t := g.transform
	marker, mx, my := g.nextMarker(s, now)
	g.mu.Unlock()

	if marker {
		s.DrawCircle(mx, my, markerRadius, g.positionPnt)
	}

	c := f.Center()
	x := t.TranslateX(c.X)
	y := t.TranslateY(c.Y)
	s.DrawCircle(x, y, facePositionRadius, g.positionPnt)

	drawGuides(s, g.guides, g.guidePnt)

	layout := ComputeLayout(f, t)
	if g.opts.DrawBoxes {
		g.drawBox(s, f, layout)
	}

	if p, ok := f.Landmark(face.NoseBase); ok {
		s.DrawCircle(t.TranslateX(p.X), t.TranslateY(p.Y), facePositionRadius, g.positionPnt)
	}
}

// nextMarker decides whether the marker is due and where it goes. g.mu must be held.
func (g *FaceGraphic) nextMarker(s Surface, now time.Time) (bool, float32, float32) {
	if !g.opts.MarkerEnabled {
		return false, 0, 0
	}
	nowMs := now.UnixMilli()
	if nowMs-g.lastMarkerMs < g.opts.MarkerInterval.Milliseconds() {
		return false, 0, 0
	}
	g.lastMarkerMs = nowMs

	w, h := float32(s.Width()), float32(s.Height())
	return true, randBelow(g.rng, w), randBelow(g.rng, h)
}

// randBelow returns a uniform value in [0, n).
func randBelow(r *rand.Rand, n float32) float32 {
	if n <= 0 {
		return 0
	}
	v := float32(r.Float64() * float64(n))
	if v >= n {
		v = math.Nextafter32(n, 0)
	}
	return v
}

func (g *FaceGraphic) drawBox(s Surface, f *face.FaceDetection, l Layout) {
	entry := Palette[l.ColorIndex]

	if f.TrackingID != nil {
		label := fmt.Sprintf("ID: %d", *f.TrackingID)
		s.DrawRect(l.Left-boxStrokeWidth, l.Top+l.LabelOffset,
			l.Left+textWidth(label, idTextSize)+2*boxStrokeWidth, l.Top,
			Paint{Color: entry.Background, Style: Fill})
		s.DrawText(label, l.Left, l.Top+l.LabelOffset+idTextSize,
			Paint{Color: entry.Text, Style: Fill, TextSize: idTextSize})
	}

	s.DrawRect(l.Left, l.Top, l.Right, l.Bottom,
		Paint{Color: entry.Background, Style: Stroke, StrokeWidth: boxStrokeWidth})
}

// textWidth estimates the advance of a label at the given size.
func textWidth(text string, size float32) float32 {
	return float32(len(text)) * size * 0.6
}
