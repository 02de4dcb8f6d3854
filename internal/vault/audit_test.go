package vault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hzh666kevin-hue/spc/internal/models"
)

// unlockWithEntries creates a service already unlocked, then swaps the
// session's entry set directly so audit fixtures can carry arbitrary
// timestamps without replaying saves.
func unlockWithEntries(t *testing.T, entries []models.Entry) *Service {
	t.Helper()
	svc, _, _, _ := newTestService(t)
	require.NoError(t, svc.Create(context.Background(), "abcd", false))
	svc.mu.Lock()
	svc.entries = entries
	svc.mu.Unlock()
	return svc
}

func TestAudit_EmptyVaultIsPerfect(t *testing.T) {
	svc := unlockWithEntries(t, nil)

	report, err := svc.Audit()
	require.NoError(t, err)
	require.Equal(t, 0, report.Total)
	require.Equal(t, 100, report.Score)
	require.Equal(t, "A", report.Grade)
	require.Empty(t, report.Weak)
	require.Empty(t, report.Reused)
	require.Empty(t, report.Old)
	require.Empty(t, report.Empty)
}

func TestAudit_ReusedClusters(t *testing.T) {
	now := time.Now().UTC()
	svc := unlockWithEntries(t, []models.Entry{
		{ID: "1", Name: "a", Password: "x", CreatedAt: now, PwdChangedAt: now},
		{ID: "2", Name: "b", Password: "x", CreatedAt: now, PwdChangedAt: now},
		{ID: "3", Name: "c", Password: "y", CreatedAt: now, PwdChangedAt: now},
	})

	report, err := svc.Audit()
	require.NoError(t, err)
	require.Len(t, report.Reused, 1)
	require.Len(t, report.Reused[0], 2)
}

func TestAudit_ReusedDistinguishesSameCoarseBucket(t *testing.T) {
	// Same length and same first characters, different passwords: the
	// coarse bucket matches but exact grouping must keep them apart.
	now := time.Now().UTC()
	svc := unlockWithEntries(t, []models.Entry{
		{ID: "1", Password: "abcdef01", CreatedAt: now, PwdChangedAt: now},
		{ID: "2", Password: "abcdef02", CreatedAt: now, PwdChangedAt: now},
	})

	report, err := svc.Audit()
	require.NoError(t, err)
	require.Empty(t, report.Reused)
}

func TestAudit_WeakOldEmptyDetection(t *testing.T) {
	now := time.Now().UTC()
	stale := now.Add(-91 * 24 * time.Hour)
	fresh := now.Add(-10 * 24 * time.Hour)

	svc := unlockWithEntries(t, []models.Entry{
		{ID: "weak", Password: "aaaaaa", CreatedAt: fresh, PwdChangedAt: fresh},
		{ID: "old", Password: "G00d&LongPassw0rd!x", CreatedAt: stale, PwdChangedAt: stale},
		{ID: "empty", Password: "", CreatedAt: fresh, PwdChangedAt: fresh},
		{ID: "fine", Password: "An0ther-G00d_0ne!xyz", CreatedAt: fresh, PwdChangedAt: fresh},
	})

	report, err := svc.Audit()
	require.NoError(t, err)

	require.Len(t, report.Weak, 1)
	require.Equal(t, "weak", report.Weak[0].ID)
	require.Len(t, report.Old, 1)
	require.Equal(t, "old", report.Old[0].ID)
	require.Len(t, report.Empty, 1)
	require.Equal(t, "empty", report.Empty[0].ID)
}

func TestAudit_OldUsesLatestOfCreatedAndChanged(t *testing.T) {
	now := time.Now().UTC()
	stale := now.Add(-200 * 24 * time.Hour)
	fresh := now.Add(-5 * 24 * time.Hour)

	svc := unlockWithEntries(t, []models.Entry{
		// Password changed recently even though the entry is ancient.
		{ID: "rotated", Password: "Fine&Dandy123456789!", CreatedAt: stale, PwdChangedAt: fresh},
	})

	report, err := svc.Audit()
	require.NoError(t, err)
	require.Empty(t, report.Old)
}

func TestAudit_ScoreAndGrade(t *testing.T) {
	now := time.Now().UTC()
	fresh := now.Add(-time.Hour)

	// 10 entries, one weak: issues = 1, score = round(100-10) = 90 -> A.
	entries := make([]models.Entry, 0, 10)
	entries = append(entries, models.Entry{ID: "w", Password: "aaaaaa", CreatedAt: fresh, PwdChangedAt: fresh})
	strong := []string{
		"Qz8!kfLm20sHdUe&Yb1x", "Wr4$npXc73jKtVa^Zg5o", "Tm9@bsEh16lPqRn*Ud2y",
		"Gf3#vwJd58mNcXi(Ae7u", "Hk6%yzQb94oLsWt)Bf0e", "Jp1&caRv27nMdYu_Cg4i",
		"Ls5*debTw63qOfZo-Dh8a", "Nx7(fgcUq50rPiAe+Ej2s", "Ov0)hidVt41sQjBf=Fk6d",
	}
	for i, pw := range strong {
		entries = append(entries, models.Entry{
			ID: string(rune('a' + i)), Password: pw, CreatedAt: fresh, PwdChangedAt: fresh,
		})
	}

	svc := unlockWithEntries(t, entries)
	report, err := svc.Audit()
	require.NoError(t, err)
	require.Equal(t, 10, report.Total)
	require.Len(t, report.Weak, 1)
	require.Equal(t, 90, report.Score)
	require.Equal(t, "A", report.Grade)
}

func TestAudit_ScoreFloorsAtZero(t *testing.T) {
	now := time.Now().UTC()
	stale := now.Add(-120 * 24 * time.Hour)

	// Every category fires at once on a tiny vault: the raw score goes
	// negative and must clamp to zero.
	svc := unlockWithEntries(t, []models.Entry{
		{ID: "1", Password: "aaa", CreatedAt: stale, PwdChangedAt: stale},
		{ID: "2", Password: "aaa", CreatedAt: stale, PwdChangedAt: stale},
		{ID: "3", Password: "", CreatedAt: stale, PwdChangedAt: stale},
	})

	report, err := svc.Audit()
	require.NoError(t, err)
	require.Equal(t, 0, report.Score)
	require.Equal(t, "F", report.Grade)
}

func TestGradeThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "A"}, {90, "A"}, {89, "B"}, {70, "B"},
		{69, "C"}, {50, "C"}, {49, "D"}, {30, "D"}, {29, "F"}, {0, "F"},
	}
	for _, tc := range tests {
		if got := gradeFor(tc.score); got != tc.want {
			t.Fatalf("gradeFor(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
