package thumbnail_test

import (
	"bytes"
	"context"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixvault/api/internal/media/thumbnail"
)

func encodeTestImage(t *testing.T, width, height int, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 155, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestRenderSquareSource(t *testing.T) {
	source := encodeTestImage(t, 100, 100, imaging.PNG)

	rendered, err := thumbnail.Render(context.Background(), source, "test.png", []int{200})
	require.NoError(t, err)
	require.Len(t, rendered, 1)

	r := rendered[0]
	assert.Equal(t, "test_thumbnail_200.png", r.Name)
	assert.Equal(t, 200, r.Height)
	assert.Equal(t, 200, r.Width)
	assert.Equal(t, "image/png", r.ContentType)

	w, h := decodeDims(t, r.Data)
	assert.Equal(t, 200, w)
	assert.Equal(t, 200, h)
}

func TestRenderHeightAnchored(t *testing.T) {
	// 300x150: height is the anchor, width follows the aspect ratio.
	source := encodeTestImage(t, 300, 150, imaging.PNG)

	rendered, err := thumbnail.Render(context.Background(), source, "wide.png", []int{200, 400})
	require.NoError(t, err)
	require.Len(t, rendered, 2)

	assert.Equal(t, "wide_thumbnail_200.png", rendered[0].Name)
	assert.Equal(t, 200, rendered[0].Height)
	assert.Equal(t, 400, rendered[0].Width)

	assert.Equal(t, "wide_thumbnail_400.png", rendered[1].Name)
	assert.Equal(t, 400, rendered[1].Height)
	assert.Equal(t, 800, rendered[1].Width)

	for _, r := range rendered {
		w, h := decodeDims(t, r.Data)
		assert.Equal(t, r.Width, w)
		assert.Equal(t, r.Height, h)
	}
}

func TestRenderRoundsWidth(t *testing.T) {
	// 100x300 at height 200 gives 200*100/300 = 66.67 -> 67.
	source := encodeTestImage(t, 100, 300, imaging.PNG)

	rendered, err := thumbnail.Render(context.Background(), source, "tall.png", []int{200})
	require.NoError(t, err)
	assert.Equal(t, 67, rendered[0].Width)
}

func TestRenderJPGEncodesAsJPEG(t *testing.T) {
	source := encodeTestImage(t, 100, 100, imaging.JPEG)

	rendered, err := thumbnail.Render(context.Background(), source, "photo.JPG", []int{200})
	require.NoError(t, err)
	require.Len(t, rendered, 1)

	r := rendered[0]
	// Public name keeps the uploader's extension spelling (lower-cased),
	// the encoder is jpeg.
	assert.Equal(t, "photo_thumbnail_200.jpg", r.Name)
	assert.Equal(t, "image/jpeg", r.ContentType)
	require.True(t, len(r.Data) > 3)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, r.Data[:3])
}

func TestRenderPreservesListOrderAndDuplicates(t *testing.T) {
	source := encodeTestImage(t, 100, 100, imaging.PNG)

	rendered, err := thumbnail.Render(context.Background(), source, "test.png", []int{400, 200, 400})
	require.NoError(t, err)
	require.Len(t, rendered, 3)
	assert.Equal(t, 400, rendered[0].Height)
	assert.Equal(t, 200, rendered[1].Height)
	assert.Equal(t, 400, rendered[2].Height)
}

func TestRenderRejectsGarbage(t *testing.T) {
	_, err := thumbnail.Render(context.Background(), []byte("not_an_image_content"), "test.png", []int{200})
	assert.ErrorIs(t, err, thumbnail.ErrNotAnImage)
}

func TestRenderHonorsCancellation(t *testing.T) {
	source := encodeTestImage(t, 100, 100, imaging.PNG)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := thumbnail.Render(ctx, source, "test.png", []int{200})
	assert.ErrorIs(t, err, context.Canceled)
}
