package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pixvault/api/internal/media/ingest"
	"pixvault/api/internal/service"
	"pixvault/api/internal/tier"
)

const (
	defaultPageSize = 10
	maxPageSize     = 25
)

type thumbnailResponse struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type imageResponse struct {
	ID            string              `json:"id"`
	OriginalImage string              `json:"original_image,omitempty"`
	Thumbnails    []thumbnailResponse `json:"thumbnails"`
}

func (h HandlerSet) UploadImage(c *gin.Context) {
	user, policy, ok := requestIdentity(c)
	if !ok {
		return
	}

	// Bound what the multipart parser will buffer before any of it is
	// read; the slack covers the framing around the file part.
	maxBytes := h.cfg.Upload.MaxSizeBytes
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+64<<10)
	}

	file, header, err := c.Request.FormFile("original_image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.respondError(c, service.ErrFileTooLarge)
			return
		}
		h.respondError(c, ingest.ErrNoFile)
		return
	}
	defer file.Close()

	if maxBytes > 0 && header.Size > maxBytes {
		h.respondError(c, service.ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.images.Upload(c.Request.Context(), user, policy, header.Filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializeUpload(result, policy))
}

func (h HandlerSet) ListImages(c *gin.Context) {
	user, policy, ok := requestIdentity(c)
	if !ok {
		return
	}

	size := defaultPageSize
	if raw := c.Query("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			size = v
			if size > maxPageSize {
				size = maxPageSize
			}
		}
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 1 {
			page = v
		}
	}

	views, err := h.images.List(c.Request.Context(), user.ID, size, (page-1)*size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]imageResponse, 0, len(views))
	for _, view := range views {
		resp := imageResponse{
			ID:         view.Image.ID,
			Thumbnails: serializeThumbnails(view.Thumbnails),
		}
		if policy.ExposeOriginal {
			resp.OriginalImage = h.images.OriginalURL(view.Image)
		}
		items = append(items, resp)
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"size":  size,
		"items": items,
	})
}

func (h HandlerSet) DeleteImage(c *gin.Context) {
	user, _, ok := requestIdentity(c)
	if !ok {
		return
	}

	if err := h.images.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func serializeUpload(result service.UploadResult, policy tier.Policy) imageResponse {
	resp := imageResponse{
		ID:         result.Image.ID,
		Thumbnails: serializeThumbnails(result.Thumbnails),
	}
	if policy.ExposeOriginal {
		resp.OriginalImage = result.OriginalURL
	}
	return resp
}

func serializeThumbnails(thumbs []service.ThumbnailView) []thumbnailResponse {
	out := make([]thumbnailResponse, 0, len(thumbs))
	for _, t := range thumbs {
		out = append(out, thumbnailResponse{
			Name:   t.Name,
			URL:    t.URL,
			Height: t.Height,
			Width:  t.Width,
		})
	}
	return out
}
