package overlay

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// circleSegments is the number of edges used to approximate a circle.
const circleSegments = 64

// Canvas rasterizes drawing commands onto an RGBA image with anti-aliasing.
// Coordinates are relative to the image's top-left corner.
type Canvas struct {
	img  *image.RGBA
	face font.Face
}

// NewCanvas draws onto img in place.
func NewCanvas(img *image.RGBA) *Canvas {
	return &Canvas{img: img, face: basicfont.Face7x13}
}

// Image returns the underlying image
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Width() int  { return c.img.Bounds().Dx() }
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

func (c *Canvas) DrawCircle(cx, cy, radius float32, p Paint) {
	if radius <= 0 {
		return
	}
	if p.Style == Fill {
		c.fill(p.Color, circlePolygon(cx, cy, radius, false))
		return
	}
	half := strokeWidth(p) / 2
	polys := [][]f32.Vec2{circlePolygon(cx, cy, radius+half, false)}
	if inner := radius - half; inner > 0 {
		// opposite winding cancels coverage inside the ring
		polys = append(polys, circlePolygon(cx, cy, inner, true))
	}
	c.fill(p.Color, polys...)
}

func (c *Canvas) DrawLine(x1, y1, x2, y2 float32, p Paint) {
	dx, dy := x2-x1, y2-y1
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	half := strokeWidth(p) / 2
	// unit normal scaled to half the stroke width
	nx, ny := -dy/length*half, dx/length*half
	c.fill(p.Color, []f32.Vec2{
		{x1 + nx, y1 + ny},
		{x2 + nx, y2 + ny},
		{x2 - nx, y2 - ny},
		{x1 - nx, y1 - ny},
	})
}

func (c *Canvas) DrawRect(left, top, right, bottom float32, p Paint) {
	if left > right {
		left, right = right, left
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	if p.Style == Fill {
		c.fill(p.Color, rectPolygon(left, top, right, bottom, false))
		return
	}
	half := strokeWidth(p) / 2
	polys := [][]f32.Vec2{rectPolygon(left-half, top-half, right+half, bottom+half, false)}
	if right-left > 2*half && bottom-top > 2*half {
		polys = append(polys, rectPolygon(left+half, top+half, right-half, bottom-half, true))
	}
	c.fill(p.Color, polys...)
}

// DrawText renders text with its baseline at y. The built-in bitmap face has
// a fixed size, so p.TextSize is not honoured.
func (c *Canvas) DrawText(text string, x, y float32, p Paint) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(p.Color),
		Face: c.face,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(text)
}

func (c *Canvas) fill(col color.RGBA, polys ...[]f32.Vec2) {
	b := c.img.Bounds()
	if b.Empty() {
		return
	}
	w, h := float32(b.Dx()), float32(b.Dy())

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	drawn := false
	for _, poly := range polys {
		poly = clipPolygon(poly, w, h)
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(poly[0][0], poly[0][1])
		for _, pt := range poly[1:] {
			z.LineTo(pt[0], pt[1])
		}
		z.ClosePath()
		drawn = true
	}
	if !drawn {
		return
	}
	z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

func strokeWidth(p Paint) float32 {
	// zero width is a hairline
	if p.StrokeWidth < 1 {
		return 1
	}
	return p.StrokeWidth
}

func circlePolygon(cx, cy, r float32, reverse bool) []f32.Vec2 {
	pts := make([]f32.Vec2, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		if reverse {
			a = -a
		}
		pts[i] = f32.Vec2{cx + r*float32(math.Cos(a)), cy + r*float32(math.Sin(a))}
	}
	return pts
}

func rectPolygon(l, t, r, b float32, reverse bool) []f32.Vec2 {
	if reverse {
		return []f32.Vec2{{l, t}, {l, b}, {r, b}, {r, t}}
	}
	return []f32.Vec2{{l, t}, {r, t}, {r, b}, {l, b}}
}

// clipPolygon clips a polygon to [0,w]x[0,h] (Sutherland-Hodgman). Winding
// order is preserved.
func clipPolygon(poly []f32.Vec2, w, h float32) []f32.Vec2 {
	edges := []struct {
		inside func(p f32.Vec2) bool
		cross  func(a, b f32.Vec2) f32.Vec2
	}{
		{func(p f32.Vec2) bool { return p[0] >= 0 }, func(a, b f32.Vec2) f32.Vec2 { return atX(a, b, 0) }},
		{func(p f32.Vec2) bool { return p[0] <= w }, func(a, b f32.Vec2) f32.Vec2 { return atX(a, b, w) }},
		{func(p f32.Vec2) bool { return p[1] >= 0 }, func(a, b f32.Vec2) f32.Vec2 { return atY(a, b, 0) }},
		{func(p f32.Vec2) bool { return p[1] <= h }, func(a, b f32.Vec2) f32.Vec2 { return atY(a, b, h) }},
	}

	out := poly
	for _, e := range edges {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = make([]f32.Vec2, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur):
				if !e.inside(prev) {
					out = append(out, e.cross(prev, cur))
				}
				out = append(out, cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

func atX(a, b f32.Vec2, x float32) f32.Vec2 {
	t := (x - a[0]) / (b[0] - a[0])
	return f32.Vec2{x, a[1] + t*(b[1]-a[1])}
}

func atY(a, b f32.Vec2, y float32) f32.Vec2 {
	t := (y - a[1]) / (b[1] - a[1])
	return f32.Vec2{a[0] + t*(b[0]-a[0]), y}
}
