package sniffer

import (
	"bytes"
	"errors"
)

// ErrUnknownType is returned when no magic-byte matcher recognizes the head.
var ErrUnknownType = errors.New("unknown media type")

// SniffLen is how many leading bytes DetectContentType needs at most.
const SniffLen = 512

// DetectContentType sniffs the real MIME type from the leading bytes of a
// stored object. Serve paths must use this instead of the filename the
// uploader declared: stored extensions are a naming convenience, never an
// authority on what the bytes are.
func DetectContentType(head []byte) (string, error) {
	for _, m := range matchers {
		if m.match(head) {
			return m.mime, nil
		}
	}
	return "", ErrUnknownType
}

type matcher struct {
	mime  string
	match func([]byte) bool
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

var matchers = []matcher{
	{"image/jpeg", func(b []byte) bool {
		return len(b) > 3 && b[0] == 0xff && b[1] == 0xd8 && b[2] == 0xff
	}},
	{"image/png", func(b []byte) bool {
		return len(b) >= len(pngMagic) && bytes.Equal(b[:len(pngMagic)], pngMagic)
	}},
	{"image/gif", func(b []byte) bool {
		return len(b) >= 6 &&
			(bytes.Equal(b[:6], []byte("GIF87a")) || bytes.Equal(b[:6], []byte("GIF89a")))
	}},
	{"image/webp", func(b []byte) bool {
		return len(b) >= 12 &&
			bytes.Equal(b[:4], []byte("RIFF")) &&
			bytes.Equal(b[8:12], []byte("WEBP"))
	}},
}
