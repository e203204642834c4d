package face

import (
	"context"
	"fmt"
	"image"
	"io"
	"net"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"face-overlay/pkg/log"
)

// YuNetClient communicates with a YuNet inference sidecar via Unix socket.
// Unlike Pigo it reports five facial landmarks per face.
type YuNetClient struct {
	socketPath string
	timeout    time.Duration
	dial       func(ctx context.Context, network, address string) (net.Conn, error)
}

// InferenceRequest is sent to the sidecar
type InferenceRequest struct {
	Height int    `msgpack:"h"`
	Width  int    `msgpack:"w"`
	Data   []byte `msgpack:"d"` // RGB uint8, row-major, shape (H, W, 3)
}

// YuNetDetection represents a face detection from YuNet
type YuNetDetection struct {
	X          float32   `msgpack:"x"`
	Y          float32   `msgpack:"y"`
	Width      float32   `msgpack:"w"`
	Height     float32   `msgpack:"h"`
	Confidence float32   `msgpack:"c"`
	Landmarks  []float32 `msgpack:"l"` // 10 values: [x1,y1, x2,y2, x3,y3, x4,y4, x5,y5]
}

// InferenceResponse is received from the sidecar
type InferenceResponse struct {
	Detections  []YuNetDetection `msgpack:"detections"`
	InferenceMs float32          `msgpack:"inference_ms"`
}

// yunetLandmarkOrder is the landmark order YuNet emits: right eye, left eye,
// nose tip, right mouth corner, left mouth corner.
var yunetLandmarkOrder = [5]LandmarkType{RightEye, LeftEye, NoseBase, MouthRight, MouthLeft}

// NewYuNetClient creates a new client for the YuNet sidecar
func NewYuNetClient(socketPath string, timeout time.Duration) *YuNetClient {
	if timeout <= 0 {
		timeout = 100 * time.Millisecond
	}
	d := &net.Dialer{}
	return &YuNetClient{
		socketPath: socketPath,
		timeout:    timeout,
		dial:       d.DialContext,
	}
}

// Detect sends a frame to the sidecar and returns detections
func (c *YuNetClient) Detect(ctx context.Context, img image.Image) ([]FaceDetection, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrInvalidFrame
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dial(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to yunet service: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	req := InferenceRequest{
		Height: img.Bounds().Dy(),
		Width:  img.Bounds().Dx(),
		Data:   toRGB(img),
	}

	reqData, err := msgpack.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	if _, err = conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		cw.CloseWrite()
	}

	respData, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp InferenceResponse
	if err = msgpack.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Debug(log.Fields{"faces": len(resp.Detections), "inference_ms": resp.InferenceMs}, "[YUNET] detection finished")
	return convertYuNetDetections(resp.Detections), nil
}

// convertYuNetDetections converts sidecar detections, unpacking the flat landmark array
func convertYuNetDetections(dets []YuNetDetection) []FaceDetection {
	detections := make([]FaceDetection, len(dets))
	for i, det := range dets {
		var landmarks []Landmark
		for j := 0; j < len(yunetLandmarkOrder) && j*2+1 < len(det.Landmarks); j++ {
			landmarks = append(landmarks, Landmark{
				Type:     yunetLandmarkOrder[j],
				Position: Point{X: det.Landmarks[j*2], Y: det.Landmarks[j*2+1]},
			})
		}

		detections[i] = FaceDetection{
			X:          det.X,
			Y:          det.Y,
			Width:      det.Width,
			Height:     det.Height,
			Confidence: det.Confidence,
			Landmarks:  landmarks,
		}
	}
	return detections
}

// FallbackDetector tries Primary first and uses Secondary when it fails.
type FallbackDetector struct {
	Primary   Detector
	Secondary Detector
}

func (f FallbackDetector) Detect(ctx context.Context, img image.Image) ([]FaceDetection, error) {
	dets, err := f.Primary.Detect(ctx, img)
	if err == nil || f.Secondary == nil {
		return dets, err
	}
	log.Warn(log.Fields{"error": err.Error()}, "[DETECT] primary detector failed, using fallback")
	return f.Secondary.Detect(ctx, img)
}
