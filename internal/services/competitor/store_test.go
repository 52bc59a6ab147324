package competitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"RentRate/internal/domain/models"
)

func testSnapshot(branch string, at time.Time) *models.CompetitorSnapshot {
	return &models.CompetitorSnapshot{
		Branch:      branch,
		RefreshedAt: at,
		Summaries: map[models.VehicleCategory]models.CategorySummary{
			models.CategoryEconomy: {
				Category:      models.CategoryEconomy,
				AveragePrice:  100,
				MinPrice:      90,
				MaxPrice:      110,
				SupplierCount: 2,
			},
		},
	}
}

func TestStoreReplaceAndSnapshot(t *testing.T) {
	s := NewStore("")
	if s.Snapshot("JED-01") != nil {
		t.Fatal("expected nil snapshot for unknown branch")
	}

	snap := testSnapshot("JED-01", time.Now())
	if err := s.Replace(snap); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got := s.Snapshot("JED-01")
	if got == nil || got.Branch != "JED-01" {
		t.Fatalf("Snapshot = %+v, want JED-01", got)
	}
	if s.Snapshot("RUH-01") != nil {
		t.Fatal("other branches must stay empty")
	}
}

func TestStoreReplaceKeepsOtherBranches(t *testing.T) {
	s := NewStore("")
	now := time.Now()
	if err := s.Replace(testSnapshot("JED-01", now)); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	old := s.Snapshot("JED-01")

	if err := s.Replace(testSnapshot("RUH-01", now)); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if s.Snapshot("JED-01") != old {
		t.Fatal("replacing one branch must not touch another branch's snapshot")
	}
	if len(s.Branches()) != 2 {
		t.Fatalf("branches = %v, want 2", s.Branches())
	}
}

func TestStorePersistAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "prices.json")
	s := NewStore(path)
	at := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	if err := s.Replace(testSnapshot("JED-01", at)); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	s2 := NewStore(path)
	if err := s2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s2.Snapshot("JED-01")
	if got == nil {
		t.Fatal("expected snapshot after reload")
	}
	if !got.RefreshedAt.Equal(at) {
		t.Fatalf("refreshed_at = %s, want %s", got.RefreshedAt, at)
	}
	if _, ok := got.Summaries[models.CategoryEconomy]; !ok {
		t.Fatal("expected Economy summary after reload")
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	if err := s.Load(); err != nil {
		t.Fatalf("missing cache file must not be an error, got %v", err)
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("corrupt cache file must degrade to no data, got %v", err)
	}
	if len(s.Branches()) != 0 {
		t.Fatal("corrupt file must not load branches")
	}
}

func TestSnapshotFreshnessTiers(t *testing.T) {
	now := time.Now()
	cases := []struct {
		age  time.Duration
		want models.Freshness
	}{
		{1 * time.Hour, models.FreshnessFresh},
		{23 * time.Hour, models.FreshnessFresh},
		{25 * time.Hour, models.FreshnessStale},
		{47 * time.Hour, models.FreshnessStale},
		{49 * time.Hour, models.FreshnessVeryOld},
	}
	for _, c := range cases {
		snap := testSnapshot("JED-01", now.Add(-c.age))
		if got := snap.FreshnessAt(now); got != c.want {
			t.Errorf("freshness at age %s = %s, want %s", c.age, got, c.want)
		}
	}
}
