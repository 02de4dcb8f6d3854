package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hzh666kevin-hue/spc/internal/common"
	"github.com/hzh666kevin-hue/spc/internal/models"
)

// resolveEntry maps a user-supplied argument to a single entry. Exact ID
// wins, then unique ID prefix, then case-insensitive exact name, then
// unique case-insensitive name substring. Ambiguity is an error listing
// the candidates.
func (a *App) resolveEntry(arg string) (*models.Entry, error) {
	entries, err := a.vault.GetAll()
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID == arg {
			return &entries[i], nil
		}
	}

	match := func(pred func(e *models.Entry) bool) []*models.Entry {
		var found []*models.Entry
		for i := range entries {
			if pred(&entries[i]) {
				found = append(found, &entries[i])
			}
		}
		return found
	}

	candidates := match(func(e *models.Entry) bool { return strings.HasPrefix(e.ID, arg) })
	if len(candidates) == 0 {
		lower := strings.ToLower(arg)
		candidates = match(func(e *models.Entry) bool { return strings.ToLower(e.Name) == lower })
	}
	if len(candidates) == 0 {
		lower := strings.ToLower(arg)
		candidates = match(func(e *models.Entry) bool { return strings.Contains(strings.ToLower(e.Name), lower) })
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%q: %w", arg, common.ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, fmt.Sprintf("%s (%s)", c.Name, c.ID))
		}
		return nil, fmt.Errorf("%q is ambiguous: %s", arg, strings.Join(names, ", "))
	}
}

// Show displays a single entry. The password itself is never printed;
// use 'copy' to move it to the clipboard.
func (a *App) Show(ctx context.Context, arg string) error {
	entry, err := a.resolveEntry(arg)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Name:    ", entry.Name)
	printlnFn("ID:      ", entry.ID)
	if entry.Username != "" {
		printlnFn("Username:", entry.Username)
	}
	if entry.URL != "" {
		printlnFn("URL:     ", entry.URL)
	}
	if entry.Group != "" {
		printlnFn("Group:   ", entry.Group)
	}
	if entry.Notes != "" {
		printlnFn("Notes:   ", entry.Notes)
	}
	printlnFn("Created: ", entry.CreatedAt.Format("2006-01-02 15:04"))
	printlnFn("Updated: ", entry.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}

// Copy places an entry's password on the clipboard. The clipboard is
// cleared automatically after the configured delay.
func (a *App) Copy(ctx context.Context, arg string) error {
	entry, err := a.resolveEntry(arg)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.vault.SecureCopy(ctx, entry.ID); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Password copied; clipboard clears in %s", a.config.ClipboardClearDelay))
	return nil
}

// Remove deletes an entry after a confirmation prompt.
func (a *App) Remove(ctx context.Context, arg string) error {
	entry, err := a.resolveEntry(arg)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Remove %q? Type 'yes' to confirm", entry.Name), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Aborted")
		return nil
	}

	if err := a.vault.Remove(ctx, entry.ID); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}
