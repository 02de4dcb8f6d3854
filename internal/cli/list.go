package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/hzh666kevin-hue/spc/internal/models"
)

func formatEntry(e models.Entry) string {
	s := fmt.Sprintf("%s  %s", e.ID, e.Name)
	if e.Username != "" {
		s += fmt.Sprintf("  (%s)", e.Username)
	}
	if e.Group != "" {
		s += fmt.Sprintf("  [%s]", e.Group)
	}
	return s
}

// List prints a short line per stored entry, newest first.
func (a *App) List(ctx context.Context) error {
	entries, err := a.vault.GetAll()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(entries) == 0 {
		printlnFn("The vault is empty")
		return nil
	}
	for _, e := range entries {
		printlnFn(formatEntry(e))
	}
	return nil
}

// Search prints entries matching the query by name, username, URL or group.
func (a *App) Search(ctx context.Context, query string) error {
	entries, err := a.vault.Search(query)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(entries) == 0 {
		printlnFn("No matches")
		return nil
	}
	for _, e := range entries {
		printlnFn(formatEntry(e))
	}
	return nil
}

// Groups prints the distinct group labels in use.
func (a *App) Groups(ctx context.Context) error {
	groups, err := a.vault.Groups()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(groups) == 0 {
		printlnFn("No groups")
		return nil
	}
	for _, g := range groups {
		printlnFn(g)
	}
	return nil
}
