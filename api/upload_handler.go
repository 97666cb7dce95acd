package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxImageSize = 10 << 20

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	PutImage(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     ImageStore
}

func newUploadHandler(store ImageStore) *uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return &uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
	}
}

// uploadImage stores a project image
// @Summary Upload image
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image, at most 10 MiB"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Router /api/uploads [post]
func (h *uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// leave room for the multipart envelope
		r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
		if err := r.ParseMultipartForm(maxImageSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxImageSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		if header.Size > maxImageSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxImageSize))
			return
		}

		sniff := make([]byte, 512)
		n, err := io.ReadFull(file, sniff)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		contentType := http.DetectContentType(sniff[:n])
		if !strings.HasPrefix(contentType, "image/") {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType, []string{"image/*"}))
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not rewind upload", err))
			return
		}

		key := services.NewImageKey(header.Filename)
		url, err := h.store.PutImage(r.Context(), key, contentType, file, header.Size)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not store image", err))
			return
		}

		h.logger.Info().Str("key", key).Int64("size", header.Size).Msg("Image uploaded")
		h.responder.WriteJSON(w, http.StatusCreated, UploadResponse{URL: url, Key: key})
	}
}
