package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/erazemk/lostmate/internal/imaging"
	"github.com/erazemk/lostmate/internal/photos"
)

// multipartOverhead allows for form boundaries and headers around the file.
const multipartOverhead = 64 << 10

// PhotosHandler handles photo upload and download.
type PhotosHandler struct {
	Photos  *photos.Store
	Options imaging.Options
	Log     zerolog.Logger
}

type uploadResponse struct {
	URI    string `json:"uri"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Upload handles POST /api/photos with a multipart "image" field. The
// returned URI goes into a listing's image field.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file, h.Options)
	if errors.Is(err, imaging.ErrUnsupported) {
		jsonError(w, http.StatusUnsupportedMediaType, "image must be JPEG or PNG")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid image")
		return
	}

	hash, err := h.Photos.Put(r.Context(), photo.Data, photo.MIME)
	if err != nil {
		h.Log.Error().Stack().Err(err).Msg("saving photo failed")
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusCreated, uploadResponse{
		URI:    photos.URI(hash),
		Width:  photo.Width,
		Height: photo.Height,
	})
}

// Get handles GET /api/photos/{hash}.
func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	if !photos.ValidHash(hash) {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	data, mime, err := h.Photos.Get(r.Context(), hash)
	if err != nil {
		h.Log.Error().Stack().Err(err).Str("hash", hash).Msg("loading photo failed")
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	// Content addressed, so the bytes behind a hash never change.
	w.Header().Set("Content-Type", mime)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(data)
}
