package ingest

import (
	"errors"
	"path"
	"strings"
)

var (
	ErrNoFile              = errors.New("no file supplied")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
)

// Validator is a pure filename predicate. It deliberately trusts the
// extension at ingest time; whether the bytes actually decode is the
// pipeline's problem, and the served content type is always re-sniffed
// from the bytes.
type Validator struct {
	allowed map[string]struct{}
}

// NewValidator builds a validator from a case-insensitive extension
// allow-list given without leading dots, e.g. ["jpg", "jpeg", "png"].
func NewValidator(extensions []string) *Validator {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Validator{allowed: allowed}
}

// Validate rejects filenames without a dot or with an extension outside
// the allow-list.
func (v *Validator) Validate(filename string) error {
	if filename == "" {
		return ErrNoFile
	}
	ext := path.Ext(filename)
	if ext == "" {
		return ErrExtensionNotAllowed
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if _, ok := v.allowed[ext]; !ok {
		return ErrExtensionNotAllowed
	}
	return nil
}
