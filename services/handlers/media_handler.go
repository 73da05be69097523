package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/peerlaunch/launchpad_api/middleware"
	"github.com/peerlaunch/launchpad_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
	maxSize  int64
}

func NewMediaHandler(mediaSvc MediaServiceInterface, maxSize int64) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
		maxSize:  maxSize,
	}
}

// @Summary Upload image
// @Description Upload an image (JPG, PNG, GIF, WEBP) to object storage and return its URL
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param image formData file true "Image file"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Failure 400 {object} shared.Response
// @Failure 504 {object} middleware.TimeoutBody
// @Router /api/upload/image [post]
func (h *MediaHandler) UploadImage(c *fiber.Ctx) (middleware.Operation, error) {
	userID, _ := c.Locals(shared.UserID).(string)
	if userID == "" {
		return nil, shared.NewUnauthorizedError(nil, "Unauthorized")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, shared.NewBadRequestError(err, "No image file provided")
	}
	if h.maxSize > 0 && file.Size > h.maxSize {
		return nil, shared.NewBadRequestError(nil, "File size exceeds maximum allowed size")
	}

	// The multipart buffers belong to the request, so the bytes are copied out
	// before the upload is handed to the racing goroutine.
	src, err := file.Open()
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Failed to read image")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Failed to read image")
	}
	filename := file.Filename

	return func(ctx context.Context) (*middleware.Reply, error) {
		resp, err := h.mediaSvc.UploadImage(ctx, userID, filename, data)
		if err != nil {
			return nil, err
		}
		return &middleware.Reply{Status: http.StatusCreated, Message: "Image uploaded successfully", Data: resp}, nil
	}, nil
}
