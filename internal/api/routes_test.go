package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"face-overlay/internal/config"
	"face-overlay/internal/overlay"
	"face-overlay/internal/services/face"
	"face-overlay/internal/services/stream"
)

type stubDetector struct{}

func (stubDetector) Detect(ctx context.Context, img image.Image) ([]face.FaceDetection, error) {
	return []face.FaceDetection{{X: 40, Y: 20, Width: 20, Height: 20, Confidence: 0.9}}, nil
}

func newTestApp() *fiber.App {
	cfg := &config.Config{BodyLimitMB: 4}
	svc := stream.New(stubDetector{}, overlay.Options{}, stream.FrameOptions{ViewWidth: 200, ViewHeight: 100})
	return NewServer(cfg, svc)
}

func openStream(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/streams", nil))
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.ID == "" {
		t.Fatalf("decode stream id: %v", err)
	}
	return body.ID
}

func frameRequest(t *testing.T, id string, fields map[string]string, frame []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	if frame != nil {
		fw, err := w.CreateFormFile("frame", "frame.png")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		fw.Write(frame)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/streams/"+id+"/frames", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func pngFrame(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 100, 50))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil || resp.StatusCode != fiber.StatusOK {
		t.Fatalf("health failed: %v %v", err, resp)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestProcessFrame_PNG(t *testing.T) {
	app := newTestApp()
	id := openStream(t, app)

	resp, err := app.Test(frameRequest(t, id, nil, pngFrame(t)))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
	if resp.Header.Get("X-Faces") != "1" {
		t.Fatalf("expected one face, got %q", resp.Header.Get("X-Faces"))
	}
}

func TestProcessFrame_JSON(t *testing.T) {
	app := newTestApp()
	id := openStream(t, app)

	resp, err := app.Test(frameRequest(t, id, map[string]string{
		"format":      "json",
		"view_width":  "400",
		"view_height": "200",
	}, pngFrame(t)))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Width int              `json:"width"`
		Raw   []map[string]any `json:"commands"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Width != 400 {
		t.Fatalf("expected width 400, got %d", body.Width)
	}
	// center + guides, no nose landmark from the stub
	if len(body.Raw) != 1+len(overlay.DefaultGuides) {
		t.Fatalf("unexpected command count %d", len(body.Raw))
	}
	// scale factor 4: center (50,30) -> (200,120)
	if body.Raw[0]["op"] != "circle" || body.Raw[0]["x1"] != 200.0 || body.Raw[0]["y1"] != 120.0 {
		t.Fatalf("unexpected first command %v", body.Raw[0])
	}
}

func TestProcessFrame_Errors(t *testing.T) {
	app := newTestApp()
	id := openStream(t, app)

	cases := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"unknown stream", frameRequest(t, "nope", nil, pngFrame(t)), fiber.StatusNotFound},
		{"missing frame", frameRequest(t, id, nil, nil), fiber.StatusBadRequest},
		{"bad image", frameRequest(t, id, nil, []byte("not an image")), fiber.StatusBadRequest},
		{"bad format", frameRequest(t, id, map[string]string{"format": "gif"}, pngFrame(t)), fiber.StatusBadRequest},
		{"bad view", frameRequest(t, id, map[string]string{"view_width": "-3"}, pngFrame(t)), fiber.StatusBadRequest},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, err := app.Test(c.req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != c.status {
				t.Fatalf("expected %d, got %d", c.status, resp.StatusCode)
			}
		})
	}
}

func TestCloseStream(t *testing.T) {
	app := newTestApp()
	id := openStream(t, app)

	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/streams/"+id, nil))
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/streams/"+id, nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
