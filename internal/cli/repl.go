package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	Init(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Groups(ctx context.Context) error
	Show(ctx context.Context, arg string) error
	Search(ctx context.Context, query string) error
	Remove(ctx context.Context, arg string) error
	Copy(ctx context.Context, arg string) error
	Generate(ctx context.Context, args []string) error
	Audit(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, path string) error
	Sync(ctx context.Context, direction string) error
}

// runREPL starts a simple read-eval-print loop for the spc CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Locked:
//	  - help               — show available commands
//	  - init               — create a new vault
//	  - unlock             — open the vault with the master password
//	  - gen [length]       — generate a random password
//	  - exit | quit        — leave the program
//
//	Unlocked:
//	  - add                — add or edit an entry (interactive)
//	  - (l)ist             — list entries
//	  - show <id|name>     — display one entry
//	  - search <query>     — find entries by name, username, URL or group
//	  - groups             — list distinct groups
//	  - copy <id|name>     — copy a password to the clipboard
//	  - remove <id|name>   — delete an entry
//	  - gen [length]       — generate a random password
//	  - audit              — run the security audit
//	  - export csv|enc <f> — export entries to a file
//	  - import <f>         — import an encrypted export
//	  - sync push|pull     — copy the vault to or from remote storage
//	  - lock               — wipe the session
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("spc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn("Available commands: add, (l)ist, show, search, groups, copy, remove, gen, audit, export, import, sync, lock, exit")
			} else {
				printlnFn("Available commands: init, unlock, gen, exit")
			}

		case "init":
			_ = a.Init(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "groups":
			_ = a.Groups(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id|name>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <query>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "remove", "rm":
			if len(args) == 0 {
				printlnFn("Usage: remove <id|name>")
				continue
			}
			_ = a.Remove(ctx, args[0])

		case "copy", "cp":
			if len(args) == 0 {
				printlnFn("Usage: copy <id|name>")
				continue
			}
			_ = a.Copy(ctx, args[0])

		case "gen":
			_ = a.Generate(ctx, args)

		case "audit":
			_ = a.Audit(ctx)

		case "export":
			if len(args) < 2 {
				printlnFn("Usage: export csv|enc <file>")
				continue
			}
			_ = a.Export(ctx, args)

		case "import":
			if len(args) == 0 {
				printlnFn("Usage: import <file>")
				continue
			}
			_ = a.Import(ctx, args[0])

		case "sync":
			if len(args) == 0 {
				printlnFn("Usage: sync push|pull")
				continue
			}
			_ = a.Sync(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
