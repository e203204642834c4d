package overlay

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"face-overlay/internal/services/face"
)

type identity struct{}

func (identity) TranslateX(x float32) float32 { return x }
func (identity) TranslateY(y float32) float32 { return y }
func (identity) Scale(v float32) float32      { return v }

func testOptions(marker bool) Options {
	return Options{
		MarkerEnabled:  marker,
		MarkerInterval: 10 * time.Second,
		Rand:           rand.New(rand.NewPCG(1, 2)),
	}
}

func testFace() *face.FaceDetection {
	return &face.FaceDetection{X: 100, Y: 200, Width: 50, Height: 80}
}

func withNose(f *face.FaceDetection, x, y float32) *face.FaceDetection {
	f.Landmarks = append(f.Landmarks, face.Landmark{Type: face.NoseBase, Position: face.Point{X: x, Y: y}})
	return f
}

func markers(cmds []Command) []Command {
	var out []Command
	for _, c := range cmds {
		if c.Op == OpCircle && c.Radius == markerRadius {
			out = append(out, c)
		}
	}
	return out
}

func TestDraw_NilFaceDrawsNothing(t *testing.T) {
	g := NewFaceGraphic(identity{}, testOptions(true))
	rec := NewRecorder(1080, 2160)

	g.Draw(rec, time.UnixMilli(50_000))

	if n := len(rec.Commands()); n != 0 {
		t.Fatalf("expected no commands, got %d", n)
	}
	if g.LastMarkerMillis() != 0 {
		t.Fatalf("marker time must not change without a face")
	}
}

func TestDraw_MarkerGatedByInterval(t *testing.T) {
	g := NewFaceGraphic(identity{}, testOptions(true))
	g.SetFace(testFace())
	rec := NewRecorder(1080, 2160)
	start := time.UnixMilli(1_000_000)

	g.Draw(rec, start)
	if n := len(markers(rec.Commands())); n != 1 {
		t.Fatalf("expected first draw to place a marker, got %d", n)
	}
	if got := g.LastMarkerMillis(); got != start.UnixMilli() {
		t.Fatalf("expected marker time %d, got %d", start.UnixMilli(), got)
	}

	rec.Reset()
	g.Draw(rec, start.Add(9999*time.Millisecond))
	if n := len(markers(rec.Commands())); n != 0 {
		t.Fatalf("expected no marker before the interval, got %d", n)
	}
	if got := g.LastMarkerMillis(); got != start.UnixMilli() {
		t.Fatalf("marker time changed without a marker: %d", got)
	}

	rec.Reset()
	next := start.Add(10 * time.Second)
	g.Draw(rec, next)
	if n := len(markers(rec.Commands())); n != 1 {
		t.Fatalf("expected a marker at the interval, got %d", n)
	}
	if got := g.LastMarkerMillis(); got != next.UnixMilli() {
		t.Fatalf("expected marker time %d, got %d", next.UnixMilli(), got)
	}
}

func TestDraw_MarkerWithinSurface(t *testing.T) {
	opts := testOptions(true)
	opts.MarkerInterval = time.Millisecond
	g := NewFaceGraphic(identity{}, opts)
	g.SetFace(testFace())

	rec := NewRecorder(64, 48)
	now := time.UnixMilli(1)
	for i := 0; i < 500; i++ {
		now = now.Add(time.Millisecond)
		g.Draw(rec, now)
	}

	ms := markers(rec.Commands())
	if len(ms) != 500 {
		t.Fatalf("expected 500 markers, got %d", len(ms))
	}
	for _, m := range ms {
		if m.X1 < 0 || m.X1 >= 64 || m.Y1 < 0 || m.Y1 >= 48 {
			t.Fatalf("marker outside surface: (%v, %v)", m.X1, m.Y1)
		}
	}
}

func TestDraw_MarkerDisabled(t *testing.T) {
	g := NewFaceGraphic(identity{}, testOptions(false))
	g.SetFace(testFace())
	rec := NewRecorder(1080, 2160)

	g.Draw(rec, time.UnixMilli(1_000_000))

	if n := len(markers(rec.Commands())); n != 0 {
		t.Fatalf("expected no markers, got %d", n)
	}
	if g.LastMarkerMillis() != 0 {
		t.Fatalf("marker time must stay unset when disabled")
	}
}

func TestDraw_CommandSequence(t *testing.T) {
	g := NewFaceGraphic(identity{}, testOptions(false))
	g.SetFace(withNose(testFace(), 120, 250))
	rec := NewRecorder(1080, 2160)

	g.Draw(rec, time.UnixMilli(1))
	cmds := rec.Commands()

	// center, 6 guides, nose
	if len(cmds) != 8 {
		t.Fatalf("expected 8 commands, got %d: %+v", len(cmds), cmds)
	}
	center := cmds[0]
	if center.Op != OpCircle || center.X1 != 125 || center.Y1 != 240 || center.Radius != facePositionRadius {
		t.Fatalf("unexpected center command %+v", center)
	}
	nose := cmds[7]
	if nose.Op != OpCircle || nose.X1 != 120 || nose.Y1 != 250 || nose.Radius != facePositionRadius {
		t.Fatalf("unexpected nose command %+v", nose)
	}
}

func TestDraw_MissingNoseOnlyOmitsLandmark(t *testing.T) {
	with := NewRecorder(1080, 2160)
	without := NewRecorder(1080, 2160)

	g := NewFaceGraphic(identity{}, testOptions(false))
	g.SetFace(withNose(testFace(), 120, 250))
	g.Draw(with, time.UnixMilli(1))

	g.SetFace(testFace())
	g.Draw(without, time.UnixMilli(2))

	a, b := with.Commands(), without.Commands()
	if len(a) != len(b)+1 {
		t.Fatalf("expected exactly one fewer command, got %d vs %d", len(a), len(b))
	}
	for i := range b {
		if a[i] != b[i] {
			t.Fatalf("command %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestDraw_GuidesIgnoreFace(t *testing.T) {
	faces := []*face.FaceDetection{
		testFace(),
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 900, Y: 1500, Width: 300, Height: 300},
	}

	for _, f := range faces {
		g := NewFaceGraphic(identity{}, testOptions(false))
		g.SetFace(f)
		rec := NewRecorder(1080, 2160)
		g.Draw(rec, time.UnixMilli(1))

		guides := rec.Commands()[1 : 1+len(DefaultGuides)]
		for i, want := range DefaultGuides {
			got := guides[i]
			if got.Color != "#888888ff" {
				t.Fatalf("guide %d has color %s", i, got.Color)
			}
			switch want.Kind {
			case GuideCircle:
				if got.Op != OpCircle || got.X1 != want.X1 || got.Y1 != want.Y1 || got.Radius != want.Radius {
					t.Fatalf("guide %d: got %+v want %+v", i, got, want)
				}
			case GuideLine:
				if got.Op != OpLine || got.X1 != want.X1 || got.Y1 != want.Y1 || got.X2 != want.X2 || got.Y2 != want.Y2 {
					t.Fatalf("guide %d: got %+v want %+v", i, got, want)
				}
			}
		}
	}
}

func TestDraw_CustomGuides(t *testing.T) {
	opts := testOptions(false)
	opts.Guides = []Guide{{Kind: GuideLine, X1: 1, Y1: 2, X2: 3, Y2: 4}}
	g := NewFaceGraphic(identity{}, opts)
	g.SetFace(testFace())
	rec := NewRecorder(100, 100)
	g.Draw(rec, time.UnixMilli(1))

	cmds := rec.Commands()
	if len(cmds) != 2 || cmds[1].Op != OpLine || cmds[1].X2 != 3 {
		t.Fatalf("expected center and one custom line, got %+v", cmds)
	}
}

func TestComputeLayout(t *testing.T) {
	f := testFace()
	l := ComputeLayout(f, identity{})
	if l.Left != 100 || l.Top != 200 || l.Right != 150 || l.Bottom != 280 {
		t.Fatalf("unexpected box %+v", l)
	}
	if l.LabelOffset != 0 || l.ColorIndex != 0 {
		t.Fatalf("face without id should have no label offset and color 0, got %+v", l)
	}

	id := int32(13)
	f.TrackingID = &id
	l = ComputeLayout(f, identity{})
	if l.LabelOffset != -(idTextSize + boxStrokeWidth) {
		t.Fatalf("unexpected label offset %v", l.LabelOffset)
	}
	if l.ColorIndex != 3 {
		t.Fatalf("expected color 3, got %d", l.ColorIndex)
	}
}

func TestDraw_BoxesInertByDefault(t *testing.T) {
	id := int32(7)
	f := testFace()
	f.TrackingID = &id

	g := NewFaceGraphic(identity{}, testOptions(false))
	g.SetFace(f)
	rec := NewRecorder(1080, 2160)
	g.Draw(rec, time.UnixMilli(1))

	for _, c := range rec.Commands() {
		if c.Op == OpRect || c.Op == OpText {
			t.Fatalf("unexpected %s command with boxes disabled", c.Op)
		}
	}
}

func TestDraw_BoxesWhenEnabled(t *testing.T) {
	id := int32(7)
	f := testFace()
	f.TrackingID = &id

	opts := testOptions(false)
	opts.DrawBoxes = true
	g := NewFaceGraphic(identity{}, opts)
	g.SetFace(f)
	rec := NewRecorder(1080, 2160)
	g.Draw(rec, time.UnixMilli(1))

	var rects, texts []Command
	for _, c := range rec.Commands() {
		switch c.Op {
		case OpRect:
			rects = append(rects, c)
		case OpText:
			texts = append(texts, c)
		}
	}
	if len(rects) != 2 || len(texts) != 1 {
		t.Fatalf("expected label background, box and text, got %d rects %d texts", len(rects), len(texts))
	}
	if texts[0].Text != "ID: 7" {
		t.Fatalf("unexpected label %q", texts[0].Text)
	}
	// palette 7 is black on yellow
	if texts[0].Color != "#000000ff" || rects[1].Color != "#ffff00ff" {
		t.Fatalf("unexpected colors text=%s box=%s", texts[0].Color, rects[1].Color)
	}
	box := rects[1]
	if box.Style != Stroke || box.StrokeWidth != boxStrokeWidth || box.X1 != 100 || box.Y2 != 280 {
		t.Fatalf("unexpected box %+v", box)
	}
}

func TestDraw_ReadsConsistentSnapshot(t *testing.T) {
	g := NewFaceGraphic(identity{}, testOptions(false))
	mk := func(k int) *face.FaceDetection {
		v := float32(k * 10)
		return withNose(&face.FaceDetection{X: v, Y: 0, Width: 0, Height: 0}, v, 1)
	}
	g.SetFace(mk(0))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for k := 1; ; k++ {
			select {
			case <-stop:
				return
			default:
				g.SetFace(mk(k % 50))
			}
		}
	}()

	for i := 0; i < 200; i++ {
		rec := NewRecorder(1080, 2160)
		g.Draw(rec, time.UnixMilli(int64(i)))
		cmds := rec.Commands()
		center, nose := cmds[0], cmds[len(cmds)-1]
		if center.X1 != nose.X1 {
			t.Fatalf("draw mixed two results: center x=%v nose x=%v", center.X1, nose.X1)
		}
	}
	close(stop)
	wg.Wait()
}
