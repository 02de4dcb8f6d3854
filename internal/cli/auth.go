package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hzh666kevin-hue/spc/internal/common"
	"github.com/hzh666kevin-hue/spc/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Init prompts for a new master password (twice) and creates the vault.
// If a vault already exists, the user is asked to confirm before the old
// one is irrecoverably replaced. Password bytes are wiped before returning.
func (a *App) Init(ctx context.Context) error {
	password, err := getPassword("Choose a master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	repeat, err := getPassword("Repeat the master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(repeat)

	if string(password) != string(repeat) {
		printlnFn("Passwords do not match")
		return errors.New("passwords do not match")
	}

	if s := cryptox.EvaluateStrength(string(password)); s.Score <= 1 {
		printlnFn(fmt.Sprintf("Warning: master password strength is %q", s.Label))
	}

	err = a.vault.Create(ctx, string(password), false)
	if errors.Is(err, common.ErrVaultExists) {
		answer, terr := getSimpleText(a.reader, "A vault already exists. Type 'yes' to erase it and start over", os.Stdout)
		if terr != nil {
			return terr
		}
		if answer != "yes" {
			printlnFn("Aborted")
			return nil
		}
		err = a.vault.Create(ctx, string(password), true)
	}
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Vault created")
	return nil
}

// Unlock prompts for the master password and opens the vault. The unlock
// notification (with the entry count) is printed by the bus subscriber.
func (a *App) Unlock(ctx context.Context) error {
	password, err := getPassword("Enter master password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.vault.Unlock(ctx, string(password)); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// Lock wipes the in-memory session. Safe to call when already locked.
func (a *App) Lock(ctx context.Context) error {
	a.vault.Lock(ctx)
	return nil
}
