package vault

import (
	"fmt"
	"math"
	"time"

	"github.com/hzh666kevin-hue/spc/internal/cryptox"
	"github.com/hzh666kevin-hue/spc/internal/models"
)

// staleAge is how long a password may stay unchanged before the audit
// flags the entry as old.
const staleAge = 90 * 24 * time.Hour

// AuditReport is the result of one security-posture pass over the
// unlocked entry set. It is computed fresh on every call and never
// cached across mutations.
type AuditReport struct {
	// Total is the number of entries examined.
	Total int

	// Weak lists entries whose password scores 1 or lower.
	Weak []models.Entry

	// Reused groups entries sharing an identical password; every group
	// has at least two members.
	Reused [][]models.Entry

	// Old lists entries whose non-empty password has not changed for
	// more than 90 days.
	Old []models.Entry

	// Empty lists entries with no password at all.
	Empty []models.Entry

	// Score is the composite posture score in [0,100].
	Score int

	// Grade maps the score onto A–F.
	Grade string
}

// Audit analyzes the decrypted entry set. It requires the vault to be
// unlocked and performs no persistence interaction. An empty vault
// scores a perfect 100/A.
func (s *Service) Audit() (*AuditReport, error) {
	entries, err := s.GetAll()
	if err != nil {
		return nil, err
	}

	report := &AuditReport{Total: len(entries)}
	if len(entries) == 0 {
		report.Score = 100
		report.Grade = "A"
		return report, nil
	}

	now := timeNow().UTC()
	for _, e := range entries {
		if e.Password == "" {
			report.Empty = append(report.Empty, e)
			continue
		}
		if cryptox.EvaluateStrength(e.Password).Score <= 1 {
			report.Weak = append(report.Weak, e)
		}
		ref := e.PwdChangedAt
		if e.CreatedAt.After(ref) {
			ref = e.CreatedAt
		}
		if now.Sub(ref) > staleAge {
			report.Old = append(report.Old, e)
		}
	}

	report.Reused = reusedGroups(entries)

	issues := float64(len(report.Weak)) +
		2*float64(len(report.Reused)) +
		0.5*float64(len(report.Old)) +
		float64(len(report.Empty))
	score := math.Round(100 - 100*issues/float64(report.Total))
	if score < 0 {
		score = 0
	}
	report.Score = int(score)
	report.Grade = gradeFor(report.Score)

	return report, nil
}

// reusedGroups partitions entries by exact password equality and keeps
// clusters of two or more. Entries are pre-bucketed by a coarse key
// (length plus the first characters) so the exact comparison only runs
// inside small buckets; the final grouping is always full equality.
func reusedGroups(entries []models.Entry) [][]models.Entry {
	buckets := make(map[string][]models.Entry)
	var bucketOrder []string
	for _, e := range entries {
		if e.Password == "" {
			continue
		}
		key := coarseKey(e.Password)
		if _, ok := buckets[key]; !ok {
			bucketOrder = append(bucketOrder, key)
		}
		buckets[key] = append(buckets[key], e)
	}

	var groups [][]models.Entry
	for _, key := range bucketOrder {
		bucket := buckets[key]
		if len(bucket) < 2 {
			continue
		}
		exact := make(map[string][]models.Entry)
		var order []string
		for _, e := range bucket {
			if _, ok := exact[e.Password]; !ok {
				order = append(order, e.Password)
			}
			exact[e.Password] = append(exact[e.Password], e)
		}
		for _, pw := range order {
			if g := exact[pw]; len(g) >= 2 {
				groups = append(groups, g)
			}
		}
	}
	return groups
}

func coarseKey(password string) string {
	prefix := password
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%d:%s", len(password), prefix)
}

func gradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	case score >= 30:
		return "D"
	default:
		return "F"
	}
}
