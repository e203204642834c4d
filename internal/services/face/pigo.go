package face

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	pigo "github.com/esimov/pigo/core"

	"face-overlay/pkg/log"
)

const (
	// Pigo detection parameters
	minSize          = 20   // Minimum face size (pixels)
	maxSize          = 1000 // Maximum face size (pixels)
	shiftFactor      = 0.1  // Shift factor for detection window
	scaleFactor      = 1.1  // Scale factor for image pyramid
	iouThreshold     = 0.2  // IoU threshold for NMS
	qualityThreshold = 5.0  // Minimum quality score
)

// PigoDetector is a pure Go face detector. It reports bounding boxes only,
// without landmarks.
type PigoDetector struct {
	classifier *pigo.Pigo
}

// NewPigoDetector loads and unpacks a Pigo cascade file
func NewPigoDetector(cascadePath string) (*PigoDetector, error) {
	cascadeFile, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file: %w", err)
	}

	p := pigo.NewPigo()
	classifier, err := p.Unpack(cascadeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade: %w", err)
	}

	log.Info(log.Fields{"min_size": minSize, "quality_threshold": qualityThreshold},
		"[PIGO] face detector initialized")
	return &PigoDetector{classifier: classifier}, nil
}

// Detect runs face detection on a decoded frame
func (d *PigoDetector) Detect(ctx context.Context, img image.Image) ([]FaceDetection, error) {
	if d == nil || d.classifier == nil {
		return nil, ErrNotInitialized
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrInvalidFrame
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Convert to grayscale (Pigo requirement)
	gray := toGrayscale(img)

	cParams := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     maxSize,
		ShiftFactor: shiftFactor,
		ScaleFactor: scaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: gray,
			Rows:   img.Bounds().Dy(),
			Cols:   img.Bounds().Dx(),
			Dim:    img.Bounds().Dx(),
		},
	}

	// Run cascade detection (0.0 = no rotation, filter by quality later)
	dets := d.classifier.RunCascade(cParams, 0.0)

	// Cluster detections to remove duplicates
	dets = d.classifier.ClusterDetections(dets, iouThreshold)

	detections := convertPigoDetections(dets)

	log.Debug(log.Fields{"faces": len(detections)}, "[PIGO] detection finished")
	return detections, nil
}

// convertPigoDetections converts Pigo detections to FaceDetection format
func convertPigoDetections(dets []pigo.Detection) []FaceDetection {
	detections := make([]FaceDetection, 0, len(dets))

	for _, det := range dets {
		if det.Q < qualityThreshold {
			continue
		}

		// Pigo returns center (Row, Col) and Scale (diameter)
		size := float32(det.Scale)
		x := float32(det.Col) - size/2
		y := float32(det.Row) - size/2

		detections = append(detections, FaceDetection{
			X:          x,
			Y:          y,
			Width:      size,
			Height:     size,
			Confidence: float32(det.Q) / 100.0, // Normalize quality to 0-1 range
		})
	}

	return detections
}
