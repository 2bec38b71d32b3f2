package service

import (
	"errors"
	"fmt"
)

var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrNotOwner          = errors.New("image belongs to another user")
	ErrLinksNotPermitted = errors.New("account tier does not permit expiring links")
	ErrNoDuration        = errors.New("no expiration time specified")
	ErrLinkExpired       = errors.New("link expired")
	ErrPersistence       = errors.New("persistence failed")
)

// DurationOutOfRangeError reports the tier's inclusive bounds so the
// caller can correct the request.
type DurationOutOfRangeError struct {
	Min int
	Max int
}

func (e *DurationOutOfRangeError) Error() string {
	return fmt.Sprintf("expiration time must be between %d and %d seconds", e.Min, e.Max)
}
