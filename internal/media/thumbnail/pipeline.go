package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrNotAnImage means the payload did not decode as any supported
	// raster format, regardless of what its extension claimed.
	ErrNotAnImage = errors.New("unsupported or corrupt image")
)

// Rendered is one resized rendition held in memory, ready to persist.
type Rendered struct {
	Name        string
	Height      int
	Width       int
	ContentType string
	Data        []byte
}

// Render decodes source once and produces one rendition per requested
// height, in list order. A height h maps to output height == h and
// width == round(h * W / H), so aspect ratio is preserved and the
// configured sizes always pin the vertical edge.
//
// The uploader's extension is trusted for naming and for choosing the
// encoder (jpg encodes as jpeg at a fixed quality); it is never used to
// decide the served content type later.
func Render(ctx context.Context, source []byte, filename string, heights []int) ([]Rendered, error) {
	src, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	ext := strings.ToLower(path.Ext(filename))
	stem := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	format, contentType := encodingFor(ext)

	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, ErrNotAnImage
	}

	out := make([]Rendered, 0, len(heights))
	for _, h := range heights {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		width := int(math.Round(float64(h) * float64(srcW) / float64(srcH)))
		if width < 1 {
			width = 1
		}
		resized := imaging.Resize(src, width, h, imaging.Lanczos)

		var buf bytes.Buffer
		if err := encode(&buf, resized, format); err != nil {
			return nil, fmt.Errorf("encode %s thumbnail %d: %w", format, h, err)
		}

		out = append(out, Rendered{
			Name:        fmt.Sprintf("%s_thumbnail_%d%s", stem, h, ext),
			Height:      h,
			Width:       width,
			ContentType: contentType,
			Data:        buf.Bytes(),
		})
	}
	return out, nil
}

// jpegQuality bounds derivative size predictably; png stays lossless.
const jpegQuality = 85

func encodingFor(ext string) (imaging.Format, string) {
	switch ext {
	case ".jpg", ".jpeg":
		return imaging.JPEG, "image/jpeg"
	case ".png":
		return imaging.PNG, "image/png"
	case ".gif":
		return imaging.GIF, "image/gif"
	default:
		return imaging.PNG, "image/png"
	}
}

func encode(buf *bytes.Buffer, img image.Image, format imaging.Format) error {
	if format == imaging.JPEG {
		return imaging.Encode(buf, img, format, imaging.JPEGQuality(jpegQuality))
	}
	return imaging.Encode(buf, img, format)
}
