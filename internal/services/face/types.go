package face

import (
	"context"
	"errors"
	"image"
)

var (
	ErrNotInitialized = errors.New("face detector not initialized")
	ErrInvalidFrame   = errors.New("invalid frame")
)

// Detector finds faces in a single frame. Coordinates are in frame pixels.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]FaceDetection, error)
}

// Point is a 2D position in detector space
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// LandmarkType identifies an anatomical point on a face
type LandmarkType int

const (
	LeftEye LandmarkType = iota
	RightEye
	NoseBase
	MouthLeft
	MouthRight
)

func (t LandmarkType) String() string {
	switch t {
	case LeftEye:
		return "left_eye"
	case RightEye:
		return "right_eye"
	case NoseBase:
		return "nose_base"
	case MouthLeft:
		return "mouth_left"
	case MouthRight:
		return "mouth_right"
	}
	return "unknown"
}

// Landmark is a typed facial point
type Landmark struct {
	Type     LandmarkType `json:"type"`
	Position Point        `json:"position"`
}

// FaceDetection represents a detected face with bounding box and confidence
type FaceDetection struct {
	X          float32    `json:"x"`      // bounding box x
	Y          float32    `json:"y"`      // bounding box y
	Width      float32    `json:"width"`  // bounding box width
	Height     float32    `json:"height"` // bounding box height
	Confidence float32    `json:"confidence"`
	Score      float32    `json:"score"`
	TrackingID *int32     `json:"trackingId,omitempty"` // nil until a tracker assigns one
	Landmarks  []Landmark `json:"landmarks,omitempty"`
}

// Center returns the bounding box center
func (f FaceDetection) Center() Point {
	return Point{X: f.X + f.Width/2, Y: f.Y + f.Height/2}
}

// Landmark returns the position of the given landmark type, if detected.
func (f FaceDetection) Landmark(t LandmarkType) (Point, bool) {
	for _, l := range f.Landmarks {
		if l.Type == t {
			return l.Position, true
		}
	}
	return Point{}, false
}

// StabilizedFace is a face smoothed over consecutive frames by the Tracker
type StabilizedFace struct {
	ID         int32
	X          float32
	Y          float32
	Width      float32
	Height     float32
	Confidence float32
	LastSeen   int
}

// Center returns the bounding box center
func (s StabilizedFace) Center() Point {
	return Point{X: s.X + s.Width/2, Y: s.Y + s.Height/2}
}
