package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hzh666kevin-hue/spc/internal/cryptox"
	"github.com/hzh666kevin-hue/spc/internal/models"
)

// Add collects entry fields interactively and saves a new entry. Leaving
// the password blank generates one with the default character set; the
// generated value is printed once so the user can record it.
func (a *App) Add(ctx context.Context) error {
	entry, err := a.addEntryDetails(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	saved, err := a.vault.Save(ctx, entry)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Saved entry:", saved.ID)
	return nil
}

func (a *App) addEntryDetails(ctx context.Context) (models.Entry, error) {
	var zero models.Entry

	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return zero, fmt.Errorf("get name: %w", err)
	}
	if name == "" {
		return zero, fmt.Errorf("name is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return zero, err
	}

	password, err := getSimpleText(a.reader, "Enter password (blank to generate)", os.Stdout)
	if err != nil {
		return zero, err
	}
	if password == "" {
		password, err = cryptox.Generate(cryptox.DefaultGeneratorOptions())
		if err != nil {
			return zero, err
		}
		printlnFn("Generated password:", password)
	} else if s := cryptox.EvaluateStrength(password); s.Score <= 1 {
		printlnFn(fmt.Sprintf("Warning: password strength is %q", s.Label))
	}

	url, err := getSimpleText(a.reader, "Enter URL", os.Stdout)
	if err != nil {
		return zero, err
	}

	group, err := getSimpleText(a.reader, "Enter group", os.Stdout)
	if err != nil {
		return zero, err
	}

	notes, err := GetMultiline(a.reader, "Enter notes (double Enter to finish):", os.Stdout)
	if err != nil {
		return zero, err
	}

	return models.Entry{
		Name:     name,
		Username: username,
		Password: password,
		URL:      url,
		Group:    group,
		Notes:    notes,
	}, nil
}
