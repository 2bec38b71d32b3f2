package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pixvault/api/internal/media/ingest"
	"pixvault/api/internal/media/thumbnail"
	"pixvault/api/internal/repository"
	"pixvault/api/internal/service"
)

// respondError maps service-layer failures onto the HTTP taxonomy. Client
// mistakes get a readable message; storage and encode failures stay 500
// with a generic body.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	var outOfRange *service.DurationOutOfRangeError

	switch {
	case errors.Is(err, ingest.ErrNoFile):
		c.JSON(http.StatusBadRequest, gin.H{"message": "File not uploaded"})
	case errors.Is(err, ingest.ErrExtensionNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"message": "File extension not allowed"})
	case errors.Is(err, thumbnail.ErrNotAnImage):
		c.JSON(http.StatusBadRequest, gin.H{"message": "File is not a valid image"})
	case errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"message": "File too large"})
	case errors.Is(err, service.ErrNoDuration):
		c.JSON(http.StatusBadRequest, gin.H{"message": "No expiration time specified"})
	case errors.As(err, &outOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"message": outOfRange.Error()})
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrLinksNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	case errors.Is(err, repository.ErrImageNotFound),
		errors.Is(err, repository.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, service.ErrLinkExpired):
		c.JSON(http.StatusGone, gin.H{"message": "Link expired"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"message": "Processing timed out"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
