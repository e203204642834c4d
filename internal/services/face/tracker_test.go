package face

import "testing"

func box(x, y, size float32) FaceDetection {
	return FaceDetection{X: x, Y: y, Width: size, Height: size, Confidence: 0.9}
}

func TestTracker_KeepsIDAcrossFrames(t *testing.T) {
	tr := NewTracker(1000)

	first := tr.Update([]FaceDetection{box(100, 100, 80)}, 0)
	second := tr.Update([]FaceDetection{box(110, 105, 80)}, 1)

	if first[0].TrackingID == nil || second[0].TrackingID == nil {
		t.Fatalf("expected tracking ids to be assigned")
	}
	if *first[0].TrackingID != *second[0].TrackingID {
		t.Fatalf("expected same id, got %d and %d", *first[0].TrackingID, *second[0].TrackingID)
	}
}

func TestTracker_NewIDOnSpatialJump(t *testing.T) {
	tr := NewTracker(1000)

	first := tr.Update([]FaceDetection{box(0, 0, 80)}, 0)
	// 0.3 * 1000 = 300px jump radius; move by 800
	second := tr.Update([]FaceDetection{box(800, 0, 80)}, 1)

	if *first[0].TrackingID == *second[0].TrackingID {
		t.Fatalf("expected a new id after a jump, got %d twice", *first[0].TrackingID)
	}
}

func TestTracker_DistinctIDsForSimultaneousFaces(t *testing.T) {
	tr := NewTracker(1000)
	out := tr.Update([]FaceDetection{box(100, 100, 80), box(120, 100, 80)}, 0)
	if *out[0].TrackingID == *out[1].TrackingID {
		t.Fatalf("two faces in one frame must not share an id")
	}
}

func TestTracker_ExpiresAfterMissedFrames(t *testing.T) {
	tr := NewTracker(1000)
	tr.Update([]FaceDetection{box(100, 100, 80)}, 0)

	for f := 1; f <= maxMissingFrames; f++ {
		tr.Update(nil, f)
	}
	if n := len(tr.Tracks(maxMissingFrames)); n != 1 {
		t.Fatalf("track should survive %d missed frames, have %d tracks", maxMissingFrames, n)
	}

	tr.Update(nil, maxMissingFrames+1)
	if n := len(tr.Tracks(maxMissingFrames + 1)); n != 0 {
		t.Fatalf("expected track to expire, have %d", n)
	}
}

func TestTracker_DecaysConfidenceOfMissedTrack(t *testing.T) {
	tr := NewTracker(1000)
	tr.Update([]FaceDetection{box(100, 100, 80)}, 0)
	tr.Update(nil, 2)

	tracks := tr.Tracks(2)
	if len(tracks) != 1 {
		t.Fatalf("expected one track, got %d", len(tracks))
	}
	want := float32(0.9 * 0.8 * 0.8)
	if d := tracks[0].Confidence - want; d > 1e-4 || d < -1e-4 {
		t.Fatalf("expected decayed confidence %.4f, got %.4f", want, tracks[0].Confidence)
	}
}

func TestTracker_DoesNotMutateInput(t *testing.T) {
	tr := NewTracker(1000)
	in := []FaceDetection{box(100, 100, 80)}
	tr.Update(in, 0)
	if in[0].TrackingID != nil {
		t.Fatalf("input detection was modified")
	}
}
