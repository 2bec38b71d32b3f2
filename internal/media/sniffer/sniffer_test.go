package sniffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixvault/api/internal/media/sniffer"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, "image/png"},
		{"gif87a", []byte("GIF87a......"), "image/gif"},
		{"gif89a", []byte("GIF89a......"), "image/gif"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBP")...), "image/webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sniffer.DetectContentType(tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectContentTypeUnknown(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		{},
		[]byte("plain text, definitely not an image"),
		{0xff, 0xd8},           // truncated jpeg magic
		[]byte("RIFF1234WAVE"), // riff but not webp
	} {
		_, err := sniffer.DetectContentType(head)
		assert.ErrorIs(t, err, sniffer.ErrUnknownType)
	}
}
