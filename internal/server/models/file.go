// Package models defines server-side data models persisted in the database.
package models

import "time"

// WrappedKey is a file's symmetric key encrypted by a client for one
// principal. The server stores and returns it verbatim and never inspects it.
type WrappedKey string

// IsEmpty reports whether no key material was supplied.
func (k WrappedKey) IsEmpty() bool { return k == "" }

// File describes server-side metadata for an uploaded ciphertext blob.
// The encrypted content itself lives in object storage.
type File struct {
	ID string
	// Filename is for display only.
	Filename string
	// OwnerID is the principal that uploaded the file.
	OwnerID string
	// StorageKey is the object-storage key of the ciphertext blob. It never
	// changes; re-uploading creates a new File.
	StorageKey string
	// OwnerWrappedKey is the file key wrapped for the owner. Never empty.
	OwnerWrappedKey WrappedKey
	ContentType     string
	Size            int64
	// Shares is the append-only ledger of grants, in insertion order.
	Shares    []ShareEntry
	CreatedAt time.Time
}

// ShareEntry grants one recipient access by carrying the file key wrapped
// for that recipient's public key. Entries are never modified or removed.
type ShareEntry struct {
	RecipientID string     `json:"recipient_id"`
	WrappedKey  WrappedKey `json:"wrapped_key"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOwnedBy reports whether userID owns the file.
func (f *File) IsOwnedBy(userID string) bool {
	return f.OwnerID == userID
}
