package overlay

// GuideKind is the shape of a guide mark
type GuideKind int

const (
	GuideCircle GuideKind = iota
	GuideLine
)

// Guide is one fixed mark of the framing template, in surface pixels.
// Circles use X1, Y1 and Radius; lines run from (X1, Y1) to (X2, Y2).
type Guide struct {
	Kind   GuideKind
	X1, Y1 float32
	X2, Y2 float32
	Radius float32
}

// DefaultGuides frames a face on a 1080 pixel wide portrait preview: two
// eye-level dots, two side rails, and top and bottom bars.
var DefaultGuides = []Guide{
	{Kind: GuideCircle, X1: 405, Y1: 700, Radius: 15},
	{Kind: GuideCircle, X1: 675, Y1: 700, Radius: 15},
	{Kind: GuideLine, X1: 205, Y1: 300, X2: 205, Y2: 2000},
	{Kind: GuideLine, X1: 875, Y1: 300, X2: 875, Y2: 2000},
	{Kind: GuideLine, X1: 305, Y1: 700, X2: 775, Y2: 700},
	{Kind: GuideLine, X1: 305, Y1: 1700, X2: 775, Y2: 1700},
}

func drawGuides(s Surface, guides []Guide, p Paint) {
	for _, g := range guides {
		switch g.Kind {
		case GuideCircle:
			s.DrawCircle(g.X1, g.Y1, g.Radius, p)
		case GuideLine:
			s.DrawLine(g.X1, g.Y1, g.X2, g.Y2, p)
		}
	}
}
