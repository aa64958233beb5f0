package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/trailbook/trailbook/internal/handler/dto"
	"github.com/trailbook/trailbook/internal/service"
	"github.com/trailbook/trailbook/internal/storage"
)

// imageFieldName is the multipart form field the image is read from.
const imageFieldName = "image"

// ImageHandler handles image upload and deletion.
type ImageHandler struct {
	svc           *service.JournalService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(svc *service.JournalService, maxUploadSize int64, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Upload handles POST /image-upload.
// Accepts exactly one file under the "image" field.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "No image uploaded")
		return
	}

	file, header, err := r.FormFile(imageFieldName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image uploaded")
		return
	}
	defer file.Close()

	imageURL, err := h.svc.UploadImage(r.Context(), file, header.Filename)
	if err != nil {
		writeServerError(w, r, h.logger, err)
		return
	}

	h.logger.Info("image uploaded",
		slog.String("original_name", header.Filename),
		slog.Int64("size_bytes", header.Size),
	)

	writeJSON(w, http.StatusOK, dto.ImageUploadResponse{
		Envelope: dto.Envelope{Error: false, Message: "Image uploaded successfully"},
		ImageURL: imageURL,
	})
}

// Delete handles DELETE /delete-image?imageURL=.
// Deleting an already-missing file still succeeds, so retries are safe.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("imageURL")
	if imageURL == "" {
		writeError(w, http.StatusBadRequest, "imageURL parameter is required")
		return
	}

	found, err := h.svc.DeleteImage(r.Context(), imageURL)
	if err != nil {
		if errors.Is(err, storage.ErrBadFilename) {
			writeError(w, http.StatusBadRequest, "Invalid imageURL")
			return
		}
		writeServerError(w, r, h.logger, err)
		return
	}

	if !found {
		writeMessage(w, http.StatusOK, "Image not found")
		return
	}

	writeMessage(w, http.StatusOK, "Image deleted successfully")
}
