package face

import (
	"math"

	"face-overlay/pkg/log"
)

const (
	// EMA smoothing parameter (0.0 = no update, 1.0 = no smoothing)
	emaAlpha = 0.3

	// Maximum consecutive frames a track survives without a matching detection
	maxMissingFrames = 3

	// Confidence decay factor per missed frame
	confidenceDecayFactor = 0.8

	// Maximum spatial jump (as fraction of frame width)
	maxSpatialJumpRatio = 0.3
)

// Tracker assigns stable tracking ids to faces across consecutive frames.
// A detection keeps the id of the nearest live track whose smoothed center is
// within the jump radius; otherwise it opens a new track.
type Tracker struct {
	tracks     []*StabilizedFace
	nextID     int32
	frameWidth int
}

// NewTracker creates a new tracker for frames of the given width
func NewTracker(frameWidth int) *Tracker {
	return &Tracker{frameWidth: frameWidth}
}

// SetFrameWidth updates the width used for the jump radius
func (t *Tracker) SetFrameWidth(w int) {
	t.frameWidth = w
}

// Update matches detections to tracks and returns them with TrackingID set.
// The input slice is not modified.
func (t *Tracker) Update(detections []FaceDetection, frameIdx int) []FaceDetection {
	out := make([]FaceDetection, len(detections))
	copy(out, detections)

	matched := make(map[*StabilizedFace]bool, len(t.tracks))
	maxJump := float32(t.frameWidth) * maxSpatialJumpRatio

	for i := range out {
		det := &out[i]
		track := t.nearest(det.Center(), maxJump, matched)
		if track == nil {
			track = t.open(det, frameIdx)
		} else {
			applyEMA(track, det, frameIdx)
		}
		matched[track] = true

		id := track.ID
		det.TrackingID = &id
	}

	t.expire(frameIdx, matched)
	return out
}

// Tracks returns a snapshot of live tracks. Unmatched tracks carry a
// confidence decayed by the number of frames they were missed.
func (t *Tracker) Tracks(frameIdx int) []StabilizedFace {
	out := make([]StabilizedFace, 0, len(t.tracks))
	for _, tr := range t.tracks {
		s := *tr
		if missed := frameIdx - tr.LastSeen; missed > 0 {
			s.Confidence = tr.Confidence * float32(math.Pow(confidenceDecayFactor, float64(missed)))
		}
		out = append(out, s)
	}
	return out
}

// Reset clears the tracker state. Ids are not reused.
func (t *Tracker) Reset() {
	t.tracks = nil
	log.Debug(nil, "[TRACKER] reset")
}

func (t *Tracker) nearest(center Point, maxJump float32, matched map[*StabilizedFace]bool) *StabilizedFace {
	var best *StabilizedFace
	bestDist := float32(math.MaxFloat32)
	for _, tr := range t.tracks {
		if matched[tr] {
			continue
		}
		d := distance(center, tr.Center())
		if d <= maxJump && d < bestDist {
			best, bestDist = tr, d
		}
	}
	return best
}

func (t *Tracker) open(det *FaceDetection, frameIdx int) *StabilizedFace {
	tr := &StabilizedFace{
		ID:         t.nextID,
		X:          det.X,
		Y:          det.Y,
		Width:      det.Width,
		Height:     det.Height,
		Confidence: det.Confidence,
		LastSeen:   frameIdx,
	}
	t.nextID++
	t.tracks = append(t.tracks, tr)

	log.Debug(log.Fields{"id": tr.ID, "frame": frameIdx}, "[TRACKER] opened track")
	return tr
}

func (t *Tracker) expire(frameIdx int, matched map[*StabilizedFace]bool) {
	live := t.tracks[:0]
	for _, tr := range t.tracks {
		if !matched[tr] && frameIdx-tr.LastSeen > maxMissingFrames {
			log.Debug(log.Fields{"id": tr.ID, "missed": frameIdx - tr.LastSeen}, "[TRACKER] lost track")
			continue
		}
		live = append(live, tr)
	}
	for i := len(live); i < len(t.tracks); i++ {
		t.tracks[i] = nil
	}
	t.tracks = live
}

// applyEMA applies exponential moving average smoothing
func applyEMA(tr *StabilizedFace, det *FaceDetection, frameIdx int) {
	// EMA formula: new = α * detected + (1-α) * old
	tr.X = emaAlpha*det.X + (1-emaAlpha)*tr.X
	tr.Y = emaAlpha*det.Y + (1-emaAlpha)*tr.Y
	tr.Width = emaAlpha*det.Width + (1-emaAlpha)*tr.Width
	tr.Height = emaAlpha*det.Height + (1-emaAlpha)*tr.Height
	tr.Confidence = det.Confidence // Don't smooth confidence
	tr.LastSeen = frameIdx
}
