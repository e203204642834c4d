package stream

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"face-overlay/internal/overlay"
	"face-overlay/internal/services/face"
	"face-overlay/pkg/log"
)

var ErrUnknownStream = errors.New("unknown stream")

// FrameOptions describe the host view a frame is rendered for. Zero sizes
// fall back to the service defaults.
type FrameOptions struct {
	ViewWidth  int
	ViewHeight int
	Flipped    bool
}

// Result is the outcome of processing one frame
type Result struct {
	StreamID string
	FrameIdx int
	Image    *image.RGBA
	Commands []overlay.Command
	Face     *face.FaceDetection
	Faces    int
}

// Session is the per-stream render state: one graphic whose face is
// replaced on every frame, plus the tracker that keeps ids stable.
type Session struct {
	ID      string
	Graphic *overlay.FaceGraphic

	mu        sync.Mutex
	tracker   *face.Tracker
	transform *overlay.ViewTransform
	frameIdx  int
}

// Service owns the stream sessions and the detector they share.
type Service struct {
	detector    face.Detector
	opts        overlay.Options
	defaultView FrameOptions
	now         func() time.Time

	sessions sync.Map // string -> *Session
}

// New creates a stream service
func New(detector face.Detector, opts overlay.Options, defaultView FrameOptions) *Service {
	return &Service{
		detector:    detector,
		opts:        opts,
		defaultView: defaultView,
		now:         time.Now,
	}
}

// Open creates a new session and returns its id
func (s *Service) Open() *Session {
	id := uuid.NewString()
	sess := &Session{
		ID:      id,
		Graphic: overlay.NewFaceGraphic(overlay.NewViewTransform(0, 0, 0, 0, false), s.opts),
		tracker: face.NewTracker(0),
	}
	s.sessions.Store(id, sess)

	log.Info(log.Fields{"stream_id": id}, "[STREAM] session opened")
	return sess
}

// Get returns an existing session
func (s *Service) Get(id string) (*Session, error) {
	v, ok := s.sessions.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStream, id)
	}
	return v.(*Session), nil
}

// Close drops a session
func (s *Service) Close(id string) error {
	if _, ok := s.sessions.LoadAndDelete(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStream, id)
	}
	log.Info(log.Fields{"stream_id": id}, "[STREAM] session closed")
	return nil
}

// Process runs detection on a frame, publishes the primary face to the
// session's graphic and renders the overlay over the scaled preview.
func (s *Service) Process(ctx context.Context, id string, frame image.Image, opts FrameOptions) (*Result, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if frame == nil || frame.Bounds().Empty() {
		return nil, face.ErrInvalidFrame
	}

	detections, err := s.detector.Detect(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to detect faces: %w", err)
	}

	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	opts = s.withDefaults(opts)

	sess.mu.Lock()
	idx := sess.frameIdx
	sess.frameIdx++
	transform := sess.updateTransform(fw, fh, opts)
	sess.tracker.SetFrameWidth(fw)
	tracked := sess.tracker.Update(face.FilterDetections(detections, fw, fh), idx)
	sess.mu.Unlock()

	primary := face.SelectPrimaryFace(tracked, fw, fh)
	sess.Graphic.SetFace(primary)

	canvas := overlay.NewCanvas(overlay.ComposePreview(frame, transform))
	rec := overlay.NewRecorder(canvas.Width(), canvas.Height())
	sess.Graphic.Draw(overlay.Tee(canvas, rec), s.now())

	log.Debug(log.Fields{
		"stream_id": id,
		"frame":     idx,
		"raw":       len(detections),
		"tracked":   len(tracked),
		"selected":  primary != nil,
	}, "[STREAM] frame processed")

	return &Result{
		StreamID: id,
		FrameIdx: idx,
		Image:    canvas.Image(),
		Commands: rec.Commands(),
		Face:     primary,
		Faces:    len(tracked),
	}, nil
}

func (s *Service) withDefaults(opts FrameOptions) FrameOptions {
	if opts.ViewWidth <= 0 {
		opts.ViewWidth = s.defaultView.ViewWidth
	}
	if opts.ViewHeight <= 0 {
		opts.ViewHeight = s.defaultView.ViewHeight
	}
	return opts
}

// updateTransform rebuilds the transform when frame or view geometry
// changed. sess.mu must be held.
func (sess *Session) updateTransform(fw, fh int, opts FrameOptions) *overlay.ViewTransform {
	t := sess.transform
	if t != nil && t.ImageWidth == fw && t.ImageHeight == fh &&
		t.ViewWidth == opts.ViewWidth && t.ViewHeight == opts.ViewHeight && t.Flipped == opts.Flipped {
		return t
	}

	if t != nil && (t.ImageWidth != fw || t.ImageHeight != fh) {
		// tracks are in frame coordinates
		sess.tracker.Reset()
	}
	t = overlay.NewViewTransform(fw, fh, opts.ViewWidth, opts.ViewHeight, opts.Flipped)
	sess.transform = t
	sess.Graphic.SetTransform(t)
	return t
}
