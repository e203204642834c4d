package overlay

import (
	"fmt"
	"sync"
)

// Op names a recorded drawing primitive
type Op string

const (
	OpCircle Op = "circle"
	OpLine   Op = "line"
	OpRect   Op = "rect"
	OpText   Op = "text"
)

// Command is one recorded drawing call. Unused coordinates are zero.
type Command struct {
	Op          Op      `json:"op"`
	X1          float32 `json:"x1"`
	Y1          float32 `json:"y1"`
	X2          float32 `json:"x2,omitempty"`
	Y2          float32 `json:"y2,omitempty"`
	Radius      float32 `json:"radius,omitempty"`
	Text        string  `json:"text,omitempty"`
	Color       string  `json:"color"`
	Style       Style   `json:"style"`
	StrokeWidth float32 `json:"strokeWidth,omitempty"`
	TextSize    float32 `json:"textSize,omitempty"`
}

// Recorder is a Surface that keeps the commands issued to it instead of
// rasterizing them.
type Recorder struct {
	width, height int

	mu       sync.Mutex
	commands []Command
}

// NewRecorder creates a recorder reporting the given surface size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Width() int  { return r.width }
func (r *Recorder) Height() int { return r.height }

func (r *Recorder) DrawCircle(cx, cy, radius float32, p Paint) {
	r.add(Command{Op: OpCircle, X1: cx, Y1: cy, Radius: radius}, p)
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float32, p Paint) {
	r.add(Command{Op: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2}, p)
}

func (r *Recorder) DrawRect(left, top, right, bottom float32, p Paint) {
	r.add(Command{Op: OpRect, X1: left, Y1: top, X2: right, Y2: bottom}, p)
}

func (r *Recorder) DrawText(text string, x, y float32, p Paint) {
	r.add(Command{Op: OpText, X1: x, Y1: y, Text: text}, p)
}

// Commands returns a copy of everything recorded so far.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Reset drops the recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.commands = nil
	r.mu.Unlock()
}

func (r *Recorder) add(c Command, p Paint) {
	c.Color = fmt.Sprintf("#%02x%02x%02x%02x", p.Color.R, p.Color.G, p.Color.B, p.Color.A)
	c.Style = p.Style
	c.StrokeWidth = p.StrokeWidth
	c.TextSize = p.TextSize

	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
}
