package face

import (
	"face-overlay/pkg/log"
)

const (
	// Size constraints (relative to frame height)
	minFaceHeightRatio = 0.05 // Minimum 5% of frame height
	maxFaceHeightRatio = 0.90 // Maximum 90% of frame height

	// Aspect ratio constraints
	minAspectRatio = 0.6 // Minimum width/height ratio
	maxAspectRatio = 1.4 // Maximum width/height ratio

	// Landmark validation thresholds
	minEyeDistanceRatio  = 0.2  // Eye distance should be at least 20% of face width
	minNoseDistanceRatio = 0.15 // Nose to eye midpoint should be at least 15% of face height
)

// FilterDetections applies all filters to remove false positives
func FilterDetections(detections []FaceDetection, frameWidth, frameHeight int) []FaceDetection {
	filtered := make([]FaceDetection, 0, len(detections))

	for _, det := range detections {
		if !filterBySize(det, frameHeight) {
			log.Debug(log.Fields{"width": det.Width, "height": det.Height, "frame_height": frameHeight},
				"[FILTER] rejected by size")
			continue
		}

		if !filterByAspectRatio(det) {
			log.Debug(log.Fields{"aspect": det.Width / det.Height}, "[FILTER] rejected by aspect ratio")
			continue
		}

		if !filterByLandmarks(det) {
			log.Debug(nil, "[FILTER] rejected by landmark geometry")
			continue
		}

		filtered = append(filtered, det)
	}

	log.Debug(log.Fields{"kept": len(filtered), "total": len(detections)}, "[FILTER] filtering finished")
	return filtered
}

// filterBySize checks if face size is within acceptable range
func filterBySize(det FaceDetection, frameHeight int) bool {
	minHeight := float32(frameHeight) * minFaceHeightRatio
	maxHeight := float32(frameHeight) * maxFaceHeightRatio

	return det.Height >= minHeight && det.Height <= maxHeight
}

// filterByAspectRatio checks if face aspect ratio is reasonable
func filterByAspectRatio(det FaceDetection) bool {
	if det.Height == 0 {
		return false
	}

	aspectRatio := det.Width / det.Height
	return aspectRatio >= minAspectRatio && aspectRatio <= maxAspectRatio
}

// filterByLandmarks validates face geometry using landmarks. Faces without
// eye and nose landmarks pass unchecked.
func filterByLandmarks(det FaceDetection) bool {
	leftEye, okL := det.Landmark(LeftEye)
	rightEye, okR := det.Landmark(RightEye)
	nose, okN := det.Landmark(NoseBase)
	if !okL || !okR || !okN {
		return true
	}

	if distance(leftEye, rightEye) < det.Width*minEyeDistanceRatio {
		return false
	}

	eyeMidpoint := Point{
		X: (leftEye.X + rightEye.X) / 2,
		Y: (leftEye.Y + rightEye.Y) / 2,
	}

	return distance(nose, eyeMidpoint) >= det.Height*minNoseDistanceRatio
}
