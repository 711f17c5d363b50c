package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feedboard/social-api/internal/api/middleware"
	"github.com/feedboard/social-api/internal/core/domain"
	"github.com/feedboard/social-api/internal/core/ports"
)

// allowedImageExts limits uploads to the image types the feed serves.
var allowedImageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// ImageHandler receives image uploads out-of-band from the query/mutation
// endpoint. Posts reference the stored file by its returned relative path.
type ImageHandler struct {
	store   ports.ImageStore
	cleaner ports.ImageCleaner
}

func NewImageHandler(store ports.ImageStore, cleaner ports.ImageCleaner) *ImageHandler {
	return &ImageHandler{store: store, cleaner: cleaner}
}

// Upload handles PUT /post-image.
//
// @Summary      Upload a post image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image    formData  file    false  "Image file (png, jpg, jpeg)"
// @Param        oldPath  formData  string  false  "Previously stored path to clear"
// @Success      200      {object}  map[string]string
// @Failure      401      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /post-image [put]
func (h *ImageHandler) Upload(c echo.Context) error {
	viewer := middleware.ViewerFrom(c)
	if !viewer.Authenticated {
		return domain.NotAuthenticated()
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusOK, map[string]string{"message": "No file provided"})
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return domain.InvalidInput([]domain.FieldProblem{{Message: "Unsupported image type"}})
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	path, err := h.store.Save(fh.Filename, src)
	if err != nil {
		return err
	}

	// replacing an existing image: clear the old file best-effort
	if oldPath := c.FormValue("oldPath"); oldPath != "" {
		h.cleaner.Clear(oldPath)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":  "File stored",
		"filePath": path,
	})
}
