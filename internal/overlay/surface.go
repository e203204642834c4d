// Package overlay renders face annotations over a camera preview. A
// FaceGraphic issues drawing commands against a Surface; the host view
// provides coordinate mapping through a Transform.
package overlay

import "image/color"

// Style selects whether a shape is filled or outlined.
type Style int

const (
	Fill Style = iota
	Stroke
)

func (s Style) String() string {
	if s == Stroke {
		return "stroke"
	}
	return "fill"
}

// MarshalText lets Style appear as a string in JSON command dumps.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Paint describes how a primitive is drawn
type Paint struct {
	Color       color.RGBA
	Style       Style
	StrokeWidth float32
	TextSize    float32
}

// Surface is a 2D drawing target with a fixed pixel size.
type Surface interface {
	Width() int
	Height() int
	DrawCircle(cx, cy, radius float32, p Paint)
	DrawLine(x1, y1, x2, y2 float32, p Paint)
	DrawRect(left, top, right, bottom float32, p Paint)
	DrawText(text string, x, y float32, p Paint)
}

// Tee returns a Surface that forwards every command to all of the given
// surfaces. Its size is that of the first one.
func Tee(first Surface, rest ...Surface) Surface {
	return tee(append([]Surface{first}, rest...))
}

type tee []Surface

func (t tee) Width() int  { return t[0].Width() }
func (t tee) Height() int { return t[0].Height() }

func (t tee) DrawCircle(cx, cy, radius float32, p Paint) {
	for _, s := range t {
		s.DrawCircle(cx, cy, radius, p)
	}
}

func (t tee) DrawLine(x1, y1, x2, y2 float32, p Paint) {
	for _, s := range t {
		s.DrawLine(x1, y1, x2, y2, p)
	}
}

func (t tee) DrawRect(left, top, right, bottom float32, p Paint) {
	for _, s := range t {
		s.DrawRect(left, top, right, bottom, p)
	}
}

func (t tee) DrawText(text string, x, y float32, p Paint) {
	for _, s := range t {
		s.DrawText(text, x, y, p)
	}
}
