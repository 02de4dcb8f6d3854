package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/hzh666kevin-hue/spc/internal/cryptox"
)

// Generate produces a random password and prints it together with its
// strength label. An optional first argument overrides the length; an
// optional second argument of "symbols" adds punctuation to the set.
func (a *App) Generate(ctx context.Context, args []string) error {
	opts := cryptox.DefaultGeneratorOptions()

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			printlnFn("Usage: gen [length] [symbols]")
			return fmt.Errorf("invalid length %q", args[0])
		}
		opts.Length = n
	}
	if len(args) > 1 && args[1] == "symbols" {
		opts.Symbols = true
	}

	password, err := cryptox.Generate(opts)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	s := cryptox.EvaluateStrength(password)
	printlnFn(password)
	printlnFn(fmt.Sprintf("Strength: %s (%d/4)", s.Label, s.Score))
	return nil
}
