package models

import "time"

// User is an authenticated principal. Email is unique across all users and
// is the human-addressable key used when sharing.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	// PublicKey is opaque to the server; clients use it to wrap file keys.
	PublicKey string
	CreatedAt time.Time
}
