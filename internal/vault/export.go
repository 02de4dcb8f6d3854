package vault

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/hzh666kevin-hue/spc/internal/common"
	"github.com/hzh666kevin-hue/spc/internal/cryptox"
	"github.com/hzh666kevin-hue/spc/internal/models"
	"github.com/hzh666kevin-hue/spc/internal/notify"
)

// csvHeader is the column order of a plaintext CSV export.
var csvHeader = []string{"name", "username", "password", "url", "group", "notes"}

// ExportCSV writes the entry set to w as RFC 4180 CSV with a header row.
// The output contains plaintext secrets; callers own the destination's
// safety.
func (s *Service) ExportCSV(w io.Writer) error {
	entries, err := s.GetAll()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	for _, e := range entries {
		record := []string{e.Name, e.Username, e.Password, e.URL, e.Group, e.Notes}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv write: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportEncrypted seals the JSON-serialized entry set under password and
// returns the blob. The export password is independent of the master
// password.
func (s *Service) ExportEncrypted(password string) (string, error) {
	entries, err := s.GetAll()
	if err != nil {
		return "", err
	}
	plaintext, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return cryptox.Encrypt(plaintext, password)
}

// ImportEncrypted decrypts a blob produced by ExportEncrypted and merges
// its entries into the vault, upserting by identifier. Imported entries
// without an identifier get a fresh one. The merged set is persisted in a
// single write; the count of imported entries is returned.
func (s *Service) ImportEncrypted(ctx context.Context, blob string, password string) (int, error) {
	plaintext, err := cryptox.Decrypt(blob, password)
	if err != nil {
		return 0, err
	}
	var imported []models.Entry
	if err := json.Unmarshal(plaintext, &imported); err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrAuthFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return 0, common.ErrVaultLocked
	}

	next := make([]models.Entry, len(s.entries))
	copy(next, s.entries)

	now := timeNow().UTC()
	merged := make([]models.Entry, 0, len(imported))
	for _, e := range imported {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.PwdChangedAt.IsZero() {
			e.PwdChangedAt = now
		}
		e.UpdatedAt = now

		replaced := false
		for i := range next {
			if next[i].ID == e.ID {
				next[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			next = append([]models.Entry{e}, next...)
		}
		merged = append(merged, e)
	}

	if err := s.persist(ctx, next); err != nil {
		return 0, err
	}
	s.entries = next

	s.log.Info(ctx, "entries imported", "count", len(merged))
	for _, e := range merged {
		s.bus.Publish(notify.Event{Type: notify.EventEntrySaved, Entry: e})
	}
	return len(merged), nil
}
