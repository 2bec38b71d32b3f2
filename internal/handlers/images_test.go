package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixvault/api/internal/config"
	"pixvault/api/internal/models"
	"pixvault/api/internal/tier"
)

func multipartUpload(t *testing.T, filename string, payload []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("original_image", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImageRejectsOversizedBodyUpFront(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// The image service is left nil: an oversized body must be rejected
	// from the part header before any bytes reach the pipeline.
	h := HandlerSet{
		log: zerolog.Nop(),
		cfg: &config.AppConfig{Upload: config.UploadConfig{MaxSizeBytes: 64}},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartUpload(t, "big.png", bytes.Repeat([]byte{0x89}, 1024))
	c.Set("current_user", models.User{ID: "user-1", Tier: "basic"})
	c.Set("tier_policy", tier.Policy{Name: "basic", ThumbnailSizes: []int{200}})

	h.UploadImage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File too large")
}
