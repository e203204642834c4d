package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"face-overlay/internal/services/face"
	"face-overlay/internal/services/stream"
	"face-overlay/pkg/log"
)

type StreamHandler struct {
	service   *stream.Service
	validator *validator.Validate
}

func NewStreamHandler(service *stream.Service, validate *validator.Validate) *StreamHandler {
	return &StreamHandler{service: service, validator: validate}
}

func RegisterStreamRoutes(app *fiber.App, h *StreamHandler) {
	app.Post("/streams", h.openStream)
	app.Post("/streams/:id/frames", h.processFrame)
	app.Delete("/streams/:id", h.closeStream)
}

type frameRequest struct {
	ViewWidth  int    `form:"view_width" validate:"omitempty,min=1,max=8192"`
	ViewHeight int    `form:"view_height" validate:"omitempty,min=1,max=8192"`
	Flipped    bool   `form:"flipped"`
	Format     string `form:"format" validate:"omitempty,oneof=png jpeg json"`
}

func (h *StreamHandler) openStream(c *fiber.Ctx) error {
	sess := h.service.Open()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": sess.ID})
}

func (h *StreamHandler) closeStream(c *fiber.Ctx) error {
	if err := h.service.Close(c.Params("id")); err != nil {
		return errJson(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *StreamHandler) processFrame(c *fiber.Ctx) error {
	var payload frameRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.validator.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fh, err := c.FormFile("frame")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing frame"})
	}
	file, err := fh.Open()
	if err != nil {
		return errJson(c, fmt.Errorf("failed to open frame: %w", err))
	}
	defer file.Close()

	frame, _, err := image.Decode(file)
	if err != nil {
		return errJson(c, fmt.Errorf("%w: %v", face.ErrInvalidFrame, err))
	}

	res, err := h.service.Process(c.UserContext(), c.Params("id"), frame, stream.FrameOptions{
		ViewWidth:  payload.ViewWidth,
		ViewHeight: payload.ViewHeight,
		Flipped:    payload.Flipped,
	})
	if err != nil {
		return errJson(c, err)
	}

	c.Set("X-Stream-ID", res.StreamID)
	c.Set("X-Frame-Index", strconv.Itoa(res.FrameIdx))
	c.Set("X-Faces", strconv.Itoa(res.Faces))

	switch payload.Format {
	case "json":
		return c.JSON(fiber.Map{
			"stream":   res.StreamID,
			"frame":    res.FrameIdx,
			"faces":    res.Faces,
			"face":     res.Face,
			"width":    res.Image.Bounds().Dx(),
			"height":   res.Image.Bounds().Dy(),
			"commands": res.Commands,
		})
	case "jpeg":
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, res.Image, &jpeg.Options{Quality: 95}); err != nil {
			return errJson(c, fmt.Errorf("failed to encode annotated image: %w", err))
		}
		c.Type("jpeg")
		return c.Send(buf.Bytes())
	default:
		var buf bytes.Buffer
		if err := png.Encode(&buf, res.Image); err != nil {
			return errJson(c, fmt.Errorf("failed to encode annotated image: %w", err))
		}
		c.Type("png")
		return c.Send(buf.Bytes())
	}
}

func errJson(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, stream.ErrUnknownStream):
		status = fiber.StatusNotFound
	case errors.Is(err, face.ErrInvalidFrame):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		log.Error(log.Fields{"error": err.Error(), "path": c.Path()}, "[API] request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
