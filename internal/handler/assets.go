package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/config"
	"folio/internal/httputil"
	"folio/internal/storage"
)

// AssetHandler handles asset uploads for image-set and document-set fields
type AssetHandler struct {
	uploader storage.Uploader
	logger   *slog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(uploader storage.Uploader, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// UploadAsset accepts a multipart file and stores it in the asset bucket.
// The returned URL is what the editor writes into image-set and document-set
// fields.
// POST /api/assets
func (h *AssetHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "file exceeds upload limit")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	asset, err := h.uploader.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("asset upload failed", "filename", header.Filename, "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "upload failed")
		return
	}

	h.logger.Info("asset uploaded", "id", asset.ID, "filename", header.Filename)
	httputil.RespondJSON(w, http.StatusCreated, asset)
}
