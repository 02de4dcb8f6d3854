// Package syncx relays the vault's two opaque blobs (payload and
// verifier) between local persistence and a remote location. The relay
// never sees plaintext: whatever it moves is already sealed by the
// crypto core.
package syncx

import "context"

// Syncer pushes the local encrypted vault to a remote copy and pulls the
// remote copy back.
type Syncer interface {
	// Push uploads the local verifier and vault blob.
	Push(ctx context.Context) error

	// Pull downloads the remote verifier and vault blob into local
	// persistence, overwriting what is there.
	Pull(ctx context.Context) error
}
