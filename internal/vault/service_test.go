package vault

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hzh666kevin-hue/spc/internal/common"
	"github.com/hzh666kevin-hue/spc/internal/logging"
	"github.com/hzh666kevin-hue/spc/internal/models"
	"github.com/hzh666kevin-hue/spc/internal/notify"
	"github.com/hzh666kevin-hue/spc/internal/repositories/blobs"
)

type fakeClipboard struct {
	mu      sync.Mutex
	content string
	writes  int
	clears  int
}

func (c *fakeClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = text
	c.writes++
	return nil
}

func (c *fakeClipboard) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = ""
	c.clears++
	return nil
}

func (c *fakeClipboard) snapshot() (string, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content, c.writes, c.clears
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type eventRecorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *eventRecorder) record(e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []notify.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func newTestService(t *testing.T) (*Service, *blobs.MemoryRepository, *eventRecorder, *fakeClipboard) {
	t.Helper()
	repo := blobs.NewMemoryRepository()
	bus := notify.NewBus()
	rec := &eventRecorder{}
	bus.Subscribe(rec.record)
	clip := &fakeClipboard{}
	svc := NewService(repo, bus, clip, discardLogger(), 50*time.Millisecond)
	return svc, repo, rec, clip
}

func TestCreate_RejectsShortMasterPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.Create(context.Background(), "abc", false)
	require.ErrorIs(t, err, common.ErrWeakMasterPassword)
	require.True(t, svc.Locked())
}

func TestCreate_RefusesExistingVault(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	svc.Lock(ctx)

	err := svc.Create(ctx, "efgh", false)
	require.ErrorIs(t, err, common.ErrVaultExists)

	// Explicit wipe starts over with the new password.
	require.NoError(t, svc.Create(ctx, "efgh", true))
	_, err = svc.Save(ctx, models.Entry{Name: "n"})
	require.NoError(t, err)
}

func TestCRUD_RequireUnlocked(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetAll()
	require.ErrorIs(t, err, common.ErrVaultLocked)
	_, err = svc.Get("id")
	require.ErrorIs(t, err, common.ErrVaultLocked)
	_, err = svc.Save(ctx, models.Entry{Name: "n"})
	require.ErrorIs(t, err, common.ErrVaultLocked)
	require.ErrorIs(t, svc.Remove(ctx, "id"), common.ErrVaultLocked)
	_, err = svc.Search("q")
	require.ErrorIs(t, err, common.ErrVaultLocked)
	_, err = svc.Groups()
	require.ErrorIs(t, err, common.ErrVaultLocked)
	require.ErrorIs(t, svc.SecureCopy(ctx, "id"), common.ErrVaultLocked)
	_, err = svc.Audit()
	require.ErrorIs(t, err, common.ErrVaultLocked)
}

func TestEndToEnd_CreateSaveLockUnlock(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))

	saved, err := svc.Save(ctx, models.Entry{Name: "bank", Password: "p@ss"})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	svc.Lock(ctx)
	_, err = svc.GetAll()
	require.ErrorIs(t, err, common.ErrVaultLocked)

	count, err := svc.Unlock(ctx, "abcd")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	entries, err := svc.GetAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "bank", entries[0].Name)
	require.Equal(t, "p@ss", entries[0].Password)
	require.Equal(t, saved.ID, entries[0].ID)
}

func TestUnlock_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	svc.Lock(ctx)

	_, err := svc.Unlock(ctx, "wrong")
	require.ErrorIs(t, err, common.ErrWrongPassword)
	require.True(t, svc.Locked())
}

func TestUnlock_Uninitialized(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Unlock(context.Background(), "abcd")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUnlock_VerifierWithoutBlob(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	svc.Lock(ctx)

	// Simulate a vault whose main blob was never written.
	verifier, err := repo.Get(ctx, VerifierKey)
	require.NoError(t, err)
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Set(ctx, VerifierKey, verifier))

	count, err := svc.Unlock(ctx, "abcd")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	entries, err := svc.GetAll()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestUnlock_CorruptBlob(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	svc.Lock(ctx)

	require.NoError(t, repo.Set(ctx, BlobKey, "bm90IGEgcmVhbCBibG9i"))

	_, err := svc.Unlock(ctx, "abcd")
	require.ErrorIs(t, err, common.ErrAuthFailed)
	require.True(t, svc.Locked())
}

func TestSave_UpsertSemantics(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	t0 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(48 * time.Hour)
	oldNow := timeNow
	defer func() { timeNow = oldNow }()

	timeNow = func() time.Time { return t0 }
	require.NoError(t, svc.Create(ctx, "abcd", false))

	first, err := svc.Save(ctx, models.Entry{Name: "mail", Password: "one"})
	require.NoError(t, err)
	require.Equal(t, t0, first.CreatedAt)
	require.Equal(t, t0, first.PwdChangedAt)

	// Same password: PwdChangedAt stays put, UpdatedAt moves.
	timeNow = func() time.Time { return t1 }
	second, err := svc.Save(ctx, models.Entry{ID: first.ID, Name: "mail2", Password: "one"})
	require.NoError(t, err)
	require.Equal(t, t0, second.CreatedAt)
	require.Equal(t, t0, second.PwdChangedAt)
	require.Equal(t, t1, second.UpdatedAt)

	// Changed password: PwdChangedAt moves.
	third, err := svc.Save(ctx, models.Entry{ID: first.ID, Name: "mail2", Password: "two"})
	require.NoError(t, err)
	require.Equal(t, t0, third.CreatedAt)
	require.Equal(t, t1, third.PwdChangedAt)

	entries, err := svc.GetAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "mail2", entries[0].Name)
}

func TestSave_PrependsNewEntries(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	_, err := svc.Save(ctx, models.Entry{Name: "older"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, models.Entry{Name: "newer"})
	require.NoError(t, err)

	entries, err := svc.GetAll()
	require.NoError(t, err)
	require.Equal(t, "newer", entries[0].Name)
	require.Equal(t, "older", entries[1].Name)
}

func TestRemove(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	saved, err := svc.Save(ctx, models.Entry{Name: "gone"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Remove(ctx, "no-such-id"), common.ErrNotFound)
	require.NoError(t, svc.Remove(ctx, saved.ID))

	entries, err := svc.GetAll()
	require.NoError(t, err)
	require.Empty(t, entries)

	// The removal survives a lock/unlock cycle.
	svc.Lock(ctx)
	count, err := svc.Unlock(ctx, "abcd")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestSave_PersistenceFailureLeavesSessionUnchanged(t *testing.T) {
	svc, repo, rec, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	_, err := svc.Save(ctx, models.Entry{Name: "kept"})
	require.NoError(t, err)

	repo.FailWrites = errors.New("disk full")
	_, err = svc.Save(ctx, models.Entry{Name: "lost"})
	require.ErrorIs(t, err, common.ErrPersistence)

	entries, err := svc.GetAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0].Name)

	types := rec.types()
	require.Contains(t, types, notify.EventError)
}

func TestEvents_LifecycleAndMutations(t *testing.T) {
	svc, _, rec, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	saved, err := svc.Save(ctx, models.Entry{Name: "n"})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, saved.ID))
	svc.Lock(ctx)

	require.Equal(t, []notify.EventType{
		notify.EventVaultUnlocked,
		notify.EventEntrySaved,
		notify.EventEntryDeleted,
		notify.EventVaultLocked,
	}, rec.types())
}

func TestLock_Idempotent(t *testing.T) {
	svc, _, rec, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	svc.Lock(ctx)
	svc.Lock(ctx)

	locked := 0
	for _, typ := range rec.types() {
		if typ == notify.EventVaultLocked {
			locked++
		}
	}
	require.Equal(t, 1, locked)
}

func TestSearchAndGroups(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	for _, e := range []models.Entry{
		{Name: "Bank", Username: "alice", URL: "https://bank.example", Group: "finance"},
		{Name: "Mail", Username: "bob@example.com", Group: "personal"},
		{Name: "Backup mail", Username: "bob2", Group: "personal"},
	} {
		_, err := svc.Save(ctx, e)
		require.NoError(t, err)
	}

	found, err := svc.Search("MAIL")
	require.NoError(t, err)
	require.Len(t, found, 2)

	found, err = svc.Search("bank.example")
	require.NoError(t, err)
	require.Len(t, found, 1)

	groups, err := svc.Groups()
	require.NoError(t, err)
	require.Equal(t, []string{"finance", "personal"}, groups)
}

func TestSecureCopy_CopiesAndClears(t *testing.T) {
	svc, _, _, clip := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	saved, err := svc.Save(ctx, models.Entry{Name: "card", Password: "pin-1234"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.SecureCopy(ctx, "missing"), common.ErrNotFound)
	require.NoError(t, svc.SecureCopy(ctx, saved.ID))

	content, writes, _ := clip.snapshot()
	require.Equal(t, "pin-1234", content)
	require.Equal(t, 1, writes)

	require.Eventually(t, func() bool {
		content, _, clears := clip.snapshot()
		return content == "" && clears == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSecureCopy_LockCancelsTimerAndWipes(t *testing.T) {
	svc, _, _, clip := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	saved, err := svc.Save(ctx, models.Entry{Name: "card", Password: "pin-1234"})
	require.NoError(t, err)

	require.NoError(t, svc.SecureCopy(ctx, saved.ID))
	svc.Lock(ctx)

	content, _, clears := clip.snapshot()
	require.Empty(t, content)
	require.GreaterOrEqual(t, clears, 1)
}

func TestUnlock_WhileUnlockedWipesOldSession(t *testing.T) {
	svc, _, _, clip := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "abcd", false))
	saved, err := svc.Save(ctx, models.Entry{Name: "card", Password: "pin-1234"})
	require.NoError(t, err)
	require.NoError(t, svc.SecureCopy(ctx, saved.ID))

	svc.mu.Lock()
	oldPassword := svc.password
	svc.mu.Unlock()

	count, err := svc.Unlock(ctx, "abcd")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	for _, b := range oldPassword {
		require.Zero(t, b, "previous session's password bytes must be zeroed")
	}

	svc.mu.Lock()
	timer := svc.clipTimer
	svc.mu.Unlock()
	require.Nil(t, timer)

	content, _, clears := clip.snapshot()
	require.Empty(t, content)
	require.GreaterOrEqual(t, clears, 1)
}

func TestCreate_WipeClearsStaleKeys(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "old master", false))
	_, err := svc.Save(ctx, models.Entry{Name: "bank", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, "vault.blob.backup", "stale"))
	svc.Lock(ctx)

	require.NoError(t, svc.Create(ctx, "new master", true))

	v, err := repo.Get(ctx, "vault.blob.backup")
	require.NoError(t, err)
	require.Empty(t, v, "wipe must drop keys outside the two it rewrites")

	entries, err := svc.GetAll()
	require.NoError(t, err)
	require.Empty(t, entries)

	svc.Lock(ctx)
	_, err = svc.Unlock(ctx, "old master")
	require.ErrorIs(t, err, common.ErrWrongPassword)
	_, err = svc.Unlock(ctx, "new master")
	require.NoError(t, err)
}
