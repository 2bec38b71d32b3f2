package models

import "time"

// ExpiringLink grants anonymous, time-boxed access to one image's original
// bytes. The token is the only lookup key; ExpiresAt is fixed at creation.
// Expiry is passive: rows outlive their deadline and are only removed by
// cascade with the image.
type ExpiringLink struct {
	ID        string
	ImageID   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the link is logically dead at now.
func (l ExpiringLink) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
