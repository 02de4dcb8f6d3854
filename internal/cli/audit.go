package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/hzh666kevin-hue/spc/internal/models"
	"github.com/hzh666kevin-hue/spc/internal/vault"
)

// Audit runs the security-posture pass and prints the findings.
func (a *App) Audit(ctx context.Context) error {
	report, err := a.vault.Audit()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Security score: %d/100 (grade %s), %d entries", report.Score, report.Grade, report.Total))
	printFindings("Weak passwords", report.Weak)
	printFindings("Empty passwords", report.Empty)
	printFindings("Stale passwords (unchanged for 90+ days)", report.Old)
	printReused(report)
	return nil
}

func printFindings(title string, entries []models.Entry) {
	if len(entries) == 0 {
		return
	}
	printlnFn(fmt.Sprintf("%s (%d):", title, len(entries)))
	for _, e := range entries {
		printlnFn("  " + formatEntry(e))
	}
}

func printReused(report *vault.AuditReport) {
	if len(report.Reused) == 0 {
		return
	}
	printlnFn(fmt.Sprintf("Reused passwords (%d groups):", len(report.Reused)))
	for i, group := range report.Reused {
		printlnFn(fmt.Sprintf("  group %d:", i+1))
		for _, e := range group {
			printlnFn("    " + formatEntry(e))
		}
	}
}
