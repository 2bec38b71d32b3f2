package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pixvault/api/internal/media/ingest"
)

func TestValidate(t *testing.T) {
	v := ingest.NewValidator([]string{"jpg", "jpeg", "png"})

	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{"jpg allowed", "photo.jpg", nil},
		{"jpeg allowed", "photo.jpeg", nil},
		{"png allowed", "photo.png", nil},
		{"uppercase extension", "PHOTO.PNG", nil},
		{"mixed case", "photo.JpG", nil},
		{"multiple dots", "my.vacation.photo.jpg", nil},
		{"gif rejected", "anim.gif", ingest.ErrExtensionNotAllowed},
		{"txt rejected", "notes.txt", ingest.ErrExtensionNotAllowed},
		{"no extension", "photo", ingest.ErrExtensionNotAllowed},
		{"trailing dot", "photo.", ingest.ErrExtensionNotAllowed},
		{"empty filename", "", ingest.ErrNoFile},
		{"extension only lookalike", "jpg", ingest.ErrExtensionNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.filename)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInjectedList(t *testing.T) {
	// The allow-list is deployment config, not a global constant.
	v := ingest.NewValidator([]string{".webp"})

	assert.NoError(t, v.Validate("photo.webp"))
	assert.ErrorIs(t, v.Validate("photo.png"), ingest.ErrExtensionNotAllowed)
}
