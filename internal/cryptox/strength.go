package cryptox

import (
	"strings"
	"unicode"
)

// Strength is the result of scoring a password: Score in [0,4] and a
// human-readable label.
type Strength struct {
	Score int
	Label string
}

var strengthLabels = [5]string{"very weak", "weak", "fair", "good", "strong"}

// weakPrefixes lists well-known weak starts; matching any of them
// (case-insensitive) costs a point.
var weakPrefixes = []string{
	"123456",
	"password",
	"qwerty",
	"admin",
	"letmein",
	"welcome",
	"abc123",
	"iloveyou",
	"dragon",
	"monkey",
	"111111",
	"000000",
}

// EvaluateStrength scores a password deterministically:
//
//   - +1 for each length threshold reached: 8, 14, 20 characters
//   - +1 per character class present beyond the first
//     (lowercase, uppercase, digit, symbol)
//   - −2 if the whole password is a single character class
//   - −1 if any character repeats 3+ times in a row
//   - −1 if the password starts with a well-known weak prefix
//   - hard cap of 1 for passwords shorter than 6 characters
//
// The final score is clamped to [0,4].
func EvaluateStrength(password string) Strength {
	runes := []rune(password)
	n := len(runes)

	score := 0
	if n >= 8 {
		score++
	}
	if n >= 14 {
		score++
	}
	if n >= 20 {
		score++
	}

	var lower, upper, digit, symbol bool
	for _, r := range runes {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	classes := 0
	for _, present := range []bool{lower, upper, digit, symbol} {
		if present {
			classes++
		}
	}
	if classes > 1 {
		score += classes - 1
	}
	if n > 0 && classes == 1 {
		score -= 2
	}

	if hasTripleRun(runes) {
		score--
	}

	lowered := strings.ToLower(password)
	for _, prefix := range weakPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			score--
			break
		}
	}

	if n < 6 && score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	if score > 4 {
		score = 4
	}

	return Strength{Score: score, Label: strengthLabels[score]}
}

func hasTripleRun(runes []rune) bool {
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
