package catalog

import (
	"testing"

	"RentRate/internal/domain/models"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Toyota Yaris", "toyota yaris"},
		{"  Toyota   Yaris  ", "toyota yaris"},
		{"Kia Sportage SUV", "kia sportage"},
		{"Toyota Yaris or similar", "toyota yaris"},
		{"Hyundai Accent GPS", "hyundai accent"},
		{"Hyundai Elantra Sedan", "hyundai elantra"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClassifyExactMatch(t *testing.T) {
	cl := NewClassifier(Default())

	res := cl.Classify("Toyota RAV4")
	if res.Tier != models.MatchExact {
		t.Fatalf("tier = %s, want exact", res.Tier)
	}
	if res.Category != models.CategorySUVStandard {
		t.Fatalf("category = %s, want SUV Standard", res.Category)
	}

	// Whitespace and listing suffixes do not change the outcome.
	for _, in := range []string{"  Toyota   RAV4  ", "toyota rav4 SUV", "Toyota RAV4 or similar"} {
		got := cl.Classify(in)
		if got.Category != res.Category || got.Tier != models.MatchExact {
			t.Errorf("Classify(%q) = (%s, %s), want (%s, exact)", in, got.Category, got.Tier, res.Category)
		}
	}
}

func TestClassifySimilarityMatch(t *testing.T) {
	cl := NewClassifier(Default())

	res := cl.Classify("Toyota Camrey")
	if res.Tier != models.MatchSimilarity {
		t.Fatalf("tier = %s, want similarity (score %.2f, key %q)", res.Tier, res.Score, res.MatchedKey)
	}
	if res.Category != models.CategoryStandard {
		t.Fatalf("category = %s, want Standard", res.Category)
	}
	if res.Score < DefaultSimilarityThreshold {
		t.Fatalf("score %.2f below threshold %.2f", res.Score, DefaultSimilarityThreshold)
	}
}

func TestClassifyKeywordFallback(t *testing.T) {
	cl := NewClassifier(Default())

	cases := []struct {
		in   string
		want models.VehicleCategory
	}{
		{"BMW X6M 2023", models.CategoryLuxurySUV},
		{"Mercedes GLS 4x4 Edition", models.CategoryLuxurySUV},
		{"Lexus LS Executive", models.CategoryLuxurySedan},
		{"GAC GS3 Crossover", models.CategorySUVCompact},
		{"Changan Eado Something", models.CategoryStandard},
	}
	for _, c := range cases {
		res := cl.Classify(c.in)
		if res.Tier != models.MatchKeyword {
			t.Errorf("Classify(%q) tier = %s, want keyword", c.in, res.Tier)
			continue
		}
		if res.Category != c.want {
			t.Errorf("Classify(%q) = %s, want %s", c.in, res.Category, c.want)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	cl := NewClassifier(Default())
	a := cl.Classify("Hyundai Tucsan")
	for i := 0; i < 10; i++ {
		b := cl.Classify("Hyundai Tucsan")
		if a != b {
			t.Fatalf("classification not deterministic: %+v vs %+v", a, b)
		}
	}
}

func TestCatalogDuplicateKeepsFirst(t *testing.T) {
	c, err := New([]models.CatalogEntry{
		{Model: "Nissan Sunny", Category: models.CategoryEconomy},
		{Model: "Nissan Sunny", Category: models.CategoryCompact},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	e, ok := c.Lookup("nissan sunny")
	if !ok || e.Category != models.CategoryEconomy {
		t.Fatalf("Lookup = (%+v, %v), want first entry kept", e, ok)
	}
}

func TestCatalogRejectsUnknownCategory(t *testing.T) {
	_, err := New([]models.CatalogEntry{{Model: "Thing", Category: "Spaceship"}})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}
