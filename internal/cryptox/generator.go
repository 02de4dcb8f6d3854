package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/hzh666kevin-hue/spc/internal/common"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()-_=+[]{};:,.<>?"
)

// GeneratorOptions controls password generation. Each character class is
// independently toggleable; Exclude removes individual characters from
// the final set.
type GeneratorOptions struct {
	Length    int
	Lowercase bool
	Uppercase bool
	Digits    bool
	Symbols   bool
	Exclude   string
}

// DefaultGeneratorOptions returns the documented defaults: 20 characters
// from lowercase, uppercase and digits, symbols off.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:    20,
		Lowercase: true,
		Uppercase: true,
		Digits:    true,
	}
}

// Generate builds a character set from the enabled classes minus the
// excluded characters, then draws opts.Length independent uniform indices
// from crypto/rand to select characters. An empty resulting set or a
// non-positive length reports common.ErrInvalidInput.
func Generate(opts GeneratorOptions) (string, error) {
	if opts.Length <= 0 {
		return "", fmt.Errorf("%w: length must be positive", common.ErrInvalidInput)
	}

	var set strings.Builder
	if opts.Lowercase {
		set.WriteString(lowercaseChars)
	}
	if opts.Uppercase {
		set.WriteString(uppercaseChars)
	}
	if opts.Digits {
		set.WriteString(digitChars)
	}
	if opts.Symbols {
		set.WriteString(symbolChars)
	}

	charset := []rune(set.String())
	if opts.Exclude != "" {
		excluded := make(map[rune]struct{}, len(opts.Exclude))
		for _, r := range opts.Exclude {
			excluded[r] = struct{}{}
		}
		kept := charset[:0]
		for _, r := range charset {
			if _, ok := excluded[r]; !ok {
				kept = append(kept, r)
			}
		}
		charset = kept
	}

	if len(charset) == 0 {
		return "", fmt.Errorf("%w: empty character set", common.ErrInvalidInput)
	}

	max := big.NewInt(int64(len(charset)))
	out := make([]rune, opts.Length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random source: %w", err)
		}
		out[i] = charset[idx.Int64()]
	}

	return string(out), nil
}
