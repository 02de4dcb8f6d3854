// Package vault implements the vault state machine: the sole owner of the
// in-memory decrypted entry set and the master password material while
// the vault is unlocked.
//
// The session moves between three states: uninitialized (no verifier in
// persistence), locked (vault exists, no key material resident) and
// unlocked (entry set and master secret resident). Every mutation
// re-encrypts the entire entry set with a fresh salt and nonce and
// persists it as one opaque blob; there is no incremental encryption.
// This bounds a single edit's write cost by the total vault size, in
// exchange for a uniform attack surface.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hzh666kevin-hue/spc/internal/common"
	"github.com/hzh666kevin-hue/spc/internal/cryptox"
	"github.com/hzh666kevin-hue/spc/internal/logging"
	"github.com/hzh666kevin-hue/spc/internal/models"
	"github.com/hzh666kevin-hue/spc/internal/notify"
	"github.com/hzh666kevin-hue/spc/internal/repositories/blobs"
)

const (
	// VerifierKey and BlobKey are the two logical persistence keys the
	// engine uses.
	VerifierKey = "vault.verifier"
	BlobKey     = "vault.blob"

	// MinMasterPasswordLen is the minimum master password length
	// accepted on vault creation.
	MinMasterPasswordLen = 4

	// DefaultClipboardClearDelay is how long a copied secret stays on
	// the clipboard before the best-effort clear runs.
	DefaultClipboardClearDelay = 30 * time.Second
)

// timeNow is a test seam.
var timeNow = time.Now

// Clipboard is the side-channel a copied secret lands on.
type Clipboard interface {
	Write(text string) error
	Clear() error
}

// Service orchestrates the vault lifecycle and CRUD over the in-memory
// entry set. All exported methods are safe for concurrent use; the
// session is guarded by a single mutex.
type Service struct {
	repo blobs.Repository
	bus  *notify.Bus
	clip Clipboard
	log  logging.Logger

	clearDelay time.Duration

	mu       sync.Mutex
	unlocked bool
	password []byte
	entries  []models.Entry

	clipTimer *time.Timer
}

// NewService wires a Service to its collaborators. clearDelay <= 0 falls
// back to DefaultClipboardClearDelay.
func NewService(repo blobs.Repository, bus *notify.Bus, clip Clipboard, log logging.Logger, clearDelay time.Duration) *Service {
	if clearDelay <= 0 {
		clearDelay = DefaultClipboardClearDelay
	}
	return &Service{
		repo:       repo,
		bus:        bus,
		clip:       clip,
		log:        log,
		clearDelay: clearDelay,
	}
}

// Initialized reports whether a vault exists in persistence.
func (s *Service) Initialized(ctx context.Context) (bool, error) {
	verifier, err := s.repo.Get(ctx, VerifierKey)
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return verifier != "", nil
}

// Locked reports whether the session currently holds no key material.
func (s *Service) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.unlocked
}

// Create initializes a new vault protected by password and leaves the
// session unlocked with an empty entry set.
//
// Creating over an existing vault destroys its data, so it is refused
// with common.ErrVaultExists unless wipe is set; callers must obtain an
// explicit destructive confirmation before passing wipe=true.
func (s *Service) Create(ctx context.Context, password string, wipe bool) error {
	if len(password) < MinMasterPasswordLen {
		return fmt.Errorf("%w: need at least %d characters", common.ErrWeakMasterPassword, MinMasterPasswordLen)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.Get(ctx, VerifierKey)
	if err != nil {
		return s.persistenceFailed(ctx, "read verifier", err)
	}
	if existing != "" {
		if !wipe {
			return common.ErrVaultExists
		}
		// drop every stored key, not just the two we rewrite, so no
		// stale blob from the old vault survives the wipe
		if err := s.repo.Clear(ctx); err != nil {
			return s.persistenceFailed(ctx, "wipe vault", err)
		}
	}

	verifier, err := cryptox.MakeVerifier(password)
	if err != nil {
		return err
	}
	blob, err := encryptEntries(nil, password)
	if err != nil {
		return err
	}

	if err := s.repo.SetMany(ctx, map[string]string{
		VerifierKey: verifier,
		BlobKey:     blob,
	}); err != nil {
		return s.persistenceFailed(ctx, "write vault", err)
	}

	s.wipeSessionLocked(ctx)
	s.unlocked = true
	s.password = []byte(password)

	s.log.Info(ctx, "vault created")
	s.bus.Publish(notify.Event{Type: notify.EventVaultUnlocked, Count: 0})
	return nil
}

// Unlock verifies password against the stored verifier, decrypts the main
// blob and populates the session. The verifier check is a fail-fast
// optimization: the decrypt path still authenticates on its own. A vault
// whose verifier exists but whose blob was never written unlocks to an
// empty entry set.
func (s *Service) Unlock(ctx context.Context, password string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	verifier, err := s.repo.Get(ctx, VerifierKey)
	if err != nil {
		return 0, s.persistenceFailed(ctx, "read verifier", err)
	}
	if verifier == "" {
		return 0, fmt.Errorf("%w: vault not initialized", common.ErrNotFound)
	}
	if !cryptox.CheckVerifier(password, verifier) {
		return 0, common.ErrWrongPassword
	}

	blob, err := s.repo.Get(ctx, BlobKey)
	if err != nil {
		return 0, s.persistenceFailed(ctx, "read vault blob", err)
	}

	var entries []models.Entry
	if blob != "" {
		plaintext, err := cryptox.Decrypt(blob, password)
		if err != nil {
			return 0, err
		}
		if err := json.Unmarshal(plaintext, &entries); err != nil {
			return 0, fmt.Errorf("%w: %w", common.ErrAuthFailed, err)
		}
	}

	s.wipeSessionLocked(ctx)
	s.unlocked = true
	s.password = []byte(password)
	s.entries = entries

	s.log.Info(ctx, "vault unlocked", "entries", len(entries))
	s.bus.Publish(notify.Event{Type: notify.EventVaultUnlocked, Count: len(entries)})
	return len(entries), nil
}

// Lock discards the master secret and the decrypted entry set, cancels
// any pending clipboard clear and wipes the clipboard. Locking an
// already-locked vault is a no-op.
func (s *Service) Lock(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return
	}

	s.wipeSessionLocked(ctx)
	s.unlocked = false

	s.log.Info(ctx, "vault locked")
	s.bus.Publish(notify.Event{Type: notify.EventVaultLocked})
}

// wipeSessionLocked zeroes the resident master secret, drops the entry
// set and cancels any armed clipboard clear (wiping the clipboard too).
// It runs on every session teardown, including the replacement of a
// still-unlocked session by a fresh unlock or create. Callers hold s.mu.
func (s *Service) wipeSessionLocked(ctx context.Context) {
	if s.clipTimer != nil {
		s.clipTimer.Stop()
		s.clipTimer = nil
		if err := s.clip.Clear(); err != nil {
			s.log.Warn(ctx, "clipboard clear failed", "error", err)
		}
	}

	common.WipeByteArray(s.password)
	s.password = nil
	s.entries = nil
}

// GetAll returns a copy of the entry set in its stored order.
func (s *Service) GetAll() ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return nil, common.ErrVaultLocked
	}
	out := make([]models.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Get returns the entry with the given identifier.
func (s *Service) Get(id string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return nil, common.ErrVaultLocked
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			e := s.entries[i]
			return &e, nil
		}
	}
	return nil, common.ErrNotFound
}

// Save upserts an entry keyed by its identifier, assigns an identifier
// when absent, re-encrypts and persists the whole set, and publishes an
// entry-saved event. New entries are prepended. CreatedAt survives
// updates; PwdChangedAt moves only when the password field actually
// changed.
func (s *Service) Save(ctx context.Context, e models.Entry) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return models.Entry{}, common.ErrVaultLocked
	}

	now := timeNow().UTC()
	e.UpdatedAt = now

	next := make([]models.Entry, len(s.entries))
	copy(next, s.entries)

	existingIdx := -1
	if e.ID != "" {
		for i := range next {
			if next[i].ID == e.ID {
				existingIdx = i
				break
			}
		}
	} else {
		e.ID = uuid.NewString()
	}

	if existingIdx >= 0 {
		old := next[existingIdx]
		e.CreatedAt = old.CreatedAt
		if e.Password == old.Password {
			e.PwdChangedAt = old.PwdChangedAt
		} else {
			e.PwdChangedAt = now
		}
		next[existingIdx] = e
	} else {
		e.CreatedAt = now
		e.PwdChangedAt = now
		next = append([]models.Entry{e}, next...)
	}

	if err := s.persist(ctx, next); err != nil {
		return models.Entry{}, err
	}
	s.entries = next

	s.log.Info(ctx, "entry saved", "id", e.ID)
	s.bus.Publish(notify.Event{Type: notify.EventEntrySaved, Entry: e})
	return e, nil
}

// Remove deletes the entry with the given identifier, re-encrypts and
// persists the remaining set.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return common.ErrVaultLocked
	}

	next := make([]models.Entry, 0, len(s.entries))
	found := false
	for _, e := range s.entries {
		if e.ID == id {
			found = true
			continue
		}
		next = append(next, e)
	}
	if !found {
		return common.ErrNotFound
	}

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.entries = next

	s.log.Info(ctx, "entry deleted", "id", id)
	s.bus.Publish(notify.Event{Type: notify.EventEntryDeleted, ID: id})
	return nil
}

// Search returns entries whose name, username, URL or group contains the
// query, case-insensitively. No persistence interaction.
func (s *Service) Search(query string) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return nil, common.ErrVaultLocked
	}

	var out []models.Entry
	for i := range s.entries {
		if s.entries[i].Matches(query) {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

// Groups returns the distinct non-empty group labels, sorted.
func (s *Service) Groups() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return nil, common.ErrVaultLocked
	}

	seen := make(map[string]struct{})
	var out []string
	for i := range s.entries {
		g := s.entries[i].Group
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

// SecureCopy places the entry's password on the clipboard and (re)arms a
// best-effort timer that clears it after the configured delay. A new copy
// resets the timer; Lock cancels it.
func (s *Service) SecureCopy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return common.ErrVaultLocked
	}

	var secret string
	found := false
	for i := range s.entries {
		if s.entries[i].ID == id {
			secret = s.entries[i].Password
			found = true
			break
		}
	}
	if !found {
		return common.ErrNotFound
	}

	if err := s.clip.Write(secret); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}

	if s.clipTimer != nil {
		s.clipTimer.Stop()
	}
	s.clipTimer = time.AfterFunc(s.clearDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.clipTimer = nil
		if err := s.clip.Clear(); err != nil {
			s.log.Warn(context.Background(), "clipboard clear failed", "error", err)
		}
	})

	s.log.Info(ctx, "secret copied to clipboard", "id", id, "clear_in", s.clearDelay)
	return nil
}

// persist seals entries under the session password and writes the blob.
// The in-memory set is only swapped by the caller after persist succeeds,
// so a failed write never leaves the session ahead of the store.
// Callers must hold s.mu.
func (s *Service) persist(ctx context.Context, entries []models.Entry) error {
	blob, err := encryptEntries(entries, string(s.password))
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, BlobKey, blob); err != nil {
		return s.persistenceFailed(ctx, "write vault blob", err)
	}
	return nil
}

// persistenceFailed wraps an I/O error, logs it and publishes an ERROR
// event. The session state is intentionally untouched.
func (s *Service) persistenceFailed(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "persistence failure", "op", op, "error", err)
	s.bus.Publish(notify.Event{Type: notify.EventError, Message: op, Err: err})
	if errors.Is(err, common.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", common.ErrPersistence, op, err)
}

func encryptEntries(entries []models.Entry, password string) (string, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	plaintext, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return cryptox.Encrypt(plaintext, password)
}
