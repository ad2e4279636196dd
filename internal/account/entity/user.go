package entity

import "time"

type User struct {
	ID        int64
	Email     string
	Password  string
	Pic       string
	LoginTime *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewUser struct {
	ID       int64
	Email    string
	Password string
	Pic      string
}

// AuthKey is the short-lived key mailed by the password reminder.
type AuthKey struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the key is no longer valid at now.
func (a AuthKey) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// StoredFile is an upload persisted in the content-addressed store.
type StoredFile struct {
	// Path is the public path, e.g. "uploads/<fingerprint>.png".
	Path        string
	Name        string
	ContentType string
	Size        int64
}
