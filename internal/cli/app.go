package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hzh666kevin-hue/spc/internal/clipboardx"
	"github.com/hzh666kevin-hue/spc/internal/config"
	"github.com/hzh666kevin-hue/spc/internal/logging"
	"github.com/hzh666kevin-hue/spc/internal/notify"
	"github.com/hzh666kevin-hue/spc/internal/repositories/blobs"
	"github.com/hzh666kevin-hue/spc/internal/syncx"
	"github.com/hzh666kevin-hue/spc/internal/vault"

	_ "modernc.org/sqlite"
)

// App wires configuration, persistence, the vault service and an optional
// remote relay behind the interactive REPL.
type App struct {
	config *config.Config
	vault  *vault.Service
	syncer syncx.Syncer
	reader *bufio.Reader
	log    logging.Logger
}

// NewApp builds the application: opens (and migrates) the sqlite database,
// constructs the vault service on top of it and subscribes a notification
// printer to the event bus. The remote relay is wired only when the
// configuration names an S3 bucket.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	db, err := blobs.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	repo := blobs.NewSQLiteRepository(db)

	bus := notify.NewBus()
	bus.Subscribe(printEvent)

	svc := vault.NewService(repo, bus, clipboardx.System{}, logger, c.ClipboardClearDelay)

	app := &App{
		config: c,
		vault:  svc,
		reader: bufio.NewReader(os.Stdin),
		log:    logger,
	}

	if c.SyncEnabled() {
		app.syncer = syncx.NewS3Syncer(repo, logger, syncx.S3Options{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Prefix:    c.S3Prefix,
		})
	}

	return app, nil
}

// printEvent is the bus subscriber backing user-visible notifications.
func printEvent(e notify.Event) {
	switch e.Type {
	case notify.EventVaultUnlocked:
		printlnFn(fmt.Sprintf("Vault unlocked (%d entries)", e.Count))
	case notify.EventVaultLocked:
		printlnFn("Vault locked")
	case notify.EventEntryDeleted:
		printlnFn("Entry removed:", e.ID)
	case notify.EventError:
		printlnFn("Error:", e.Message)
	}
}

func (a *App) isUnlocked() bool {
	return !a.vault.Locked()
}

func (a *App) getStatus() string {
	if a.isUnlocked() {
		return "(unlocked)"
	}
	return "(locked)"
}

// Run starts the interactive loop and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	initialized, err := a.vault.Initialized(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if initialized {
		printlnFn("Welcome to spc (type 'help' for commands)")
	} else {
		printlnFn("Welcome to spc. No vault found; type 'init' to create one.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)

	a.vault.Lock(ctx)
}
