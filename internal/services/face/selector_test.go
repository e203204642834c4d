package face

import "testing"

func TestSelectPrimaryFace_Empty(t *testing.T) {
	if got := SelectPrimaryFace(nil, 100, 100); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestSelectPrimaryFace_PrefersLargeCentralFace(t *testing.T) {
	candidates := []FaceDetection{
		{X: 10, Y: 800, Width: 50, Height: 50, Confidence: 0.9},
		{X: 400, Y: 300, Width: 200, Height: 200, Confidence: 0.8},
	}
	got := SelectPrimaryFace(candidates, 1000, 1000)
	if got == nil || got.X != 400 {
		t.Fatalf("expected central face, got %+v", got)
	}
	if got.Score <= 0 {
		t.Fatalf("expected score to be set")
	}

	// returned value is a copy
	got.X = -1
	if candidates[1].X != 400 {
		t.Fatalf("selection must not alias the candidate slice")
	}
}
