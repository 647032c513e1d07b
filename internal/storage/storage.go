// Package storage abstracts the object store stem artifacts are published
// to. The separation core never touches it; only the orchestration layer
// does, once per stem, tolerating individual failures.
package storage

import "context"

// Upload describes one stored artifact.
type Upload struct {
	SecureURL string
	PublicID  string
	Format    string
	Bytes     int64
}

// Uploader publishes a local artifact under a public identifier.
//
// Implementations fail with an error on network, auth, or timeout
// problems; callers decide whether that aborts anything beyond the one
// artifact.
type Uploader interface {
	Upload(ctx context.Context, path, publicID string) (*Upload, error)
}
