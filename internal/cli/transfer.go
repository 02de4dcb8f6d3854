package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hzh666kevin-hue/spc/internal/common"
)

// Export writes the vault to a file. "export csv <file>" writes plaintext
// CSV after an explicit confirmation; "export enc <file>" writes a
// password-protected blob.
func (a *App) Export(ctx context.Context, args []string) error {
	format, path := args[0], args[1]

	switch format {
	case "csv":
		answer, err := getSimpleText(a.reader, "CSV export is PLAINTEXT. Type 'yes' to continue", os.Stdout)
		if err != nil {
			return err
		}
		if answer != "yes" {
			printlnFn("Aborted")
			return nil
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		defer f.Close()

		if err := a.vault.ExportCSV(f); err != nil {
			log.Printf("error: %v", err)
			return err
		}
		printlnFn("Exported CSV to", path)
		return nil

	case "enc":
		password, err := getPassword("Choose an export password", os.Stdout)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		blob, err := a.vault.ExportEncrypted(string(password))
		if err != nil {
			log.Printf("error: %v", err)
			return err
		}
		if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
			log.Printf("error: %v", err)
			return err
		}
		printlnFn("Exported encrypted vault to", path)
		return nil

	default:
		printlnFn("Usage: export csv|enc <file>")
		return fmt.Errorf("unknown export format %q", format)
	}
}

// Import merges a password-protected export into the unlocked vault.
// Entries sharing an ID with an existing entry replace it; the rest are
// added.
func (a *App) Import(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	password, err := getPassword("Enter the export password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	count, err := a.vault.ImportEncrypted(ctx, string(data), string(password))
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Imported %d entries", count))
	return nil
}

// Sync copies the sealed vault to or from the configured S3 bucket. Pull
// locks the vault first so the session never outlives the blob it was
// decrypted from.
func (a *App) Sync(ctx context.Context, direction string) error {
	if a.syncer == nil {
		printlnFn("Sync is not configured; set s3_bucket in the config file")
		return nil
	}

	switch direction {
	case "push":
		if err := a.syncer.Push(ctx); err != nil {
			log.Printf("error: %v", err)
			return err
		}
		printlnFn("Pushed vault to remote storage")
		return nil

	case "pull":
		a.vault.Lock(ctx)
		if err := a.syncer.Pull(ctx); err != nil {
			log.Printf("error: %v", err)
			return err
		}
		printlnFn("Pulled vault from remote storage; unlock to continue")
		return nil

	default:
		printlnFn("Usage: sync push|pull")
		return fmt.Errorf("unknown sync direction %q", direction)
	}
}
