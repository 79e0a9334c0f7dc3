// Package storage stores uploaded resume files and hands back the URL they
// are reachable at.
//
// Two backends: LocalStore writes under a directory that the server also
// serves read-only at /uploads/ (the default, no infrastructure needed),
// and S3Store puts objects into an S3-compatible bucket for deployments
// where the app node has no durable disk.
package storage

import (
	"context"
	"io"
)

// FileStore persists one named file and returns its public URL.
//
// Names are generated by the caller (user id + millisecond timestamp), so
// implementations never have to worry about collisions, only durability.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (url string, err error)
}
