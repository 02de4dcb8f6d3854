// Package blobs implements the vault's persistence collaborator: a
// key→opaque-string store holding the encrypted vault payload and the
// password verifier.
package blobs

import "context"

// Repository stores opaque text blobs by string key.
//
// Get returns an empty string and a nil error when the key is absent;
// stored values are never empty, so the two cases do not collide.
//
// SetMany writes all pairs or none: a failure part-way through must not
// leave a subset of the values visible.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Clear(ctx context.Context) error
}
