package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type createLinkResponse struct {
	ExpirationTime time.Time `json:"expiration_time"`
	Link           string    `json:"link"`
}

func (h HandlerSet) CreateLink(c *gin.Context) {
	user, policy, ok := requestIdentity(c)
	if !ok {
		return
	}

	duration := c.PostForm("expiration-time")
	if duration == "" && strings.Contains(c.ContentType(), "json") {
		var body struct {
			ExpirationTime json.Number `json:"expiration-time"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			duration = body.ExpirationTime.String()
		}
	}

	issued, err := h.links.Issue(c.Request.Context(), user, policy, c.Param("id"), duration)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createLinkResponse{
		ExpirationTime: issued.Link.ExpiresAt,
		Link:           issued.URL,
	})
}

// ServeExpiringImage is the anonymous capability endpoint. The response
// content type comes from sniffing the stored bytes, never from the
// uploader's filename.
func (h HandlerSet) ServeExpiringImage(c *gin.Context) {
	resolved, err := h.links.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer resolved.Body.Close()

	c.DataFromReader(http.StatusOK, resolved.Size, resolved.ContentType, resolved.Body, nil)
}
