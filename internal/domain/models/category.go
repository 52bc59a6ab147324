package models

import "fmt"

// VehicleCategory is the closed set of internal rental classes. Values are
// fixed at compile time; nothing creates categories at runtime.
type VehicleCategory string

const (
	CategoryEconomy     VehicleCategory = "Economy"
	CategoryCompact     VehicleCategory = "Compact"
	CategoryStandard    VehicleCategory = "Standard"
	CategorySUVCompact  VehicleCategory = "SUV Compact"
	CategorySUVStandard VehicleCategory = "SUV Standard"
	CategorySUVLarge    VehicleCategory = "SUV Large"
	CategoryLuxurySedan VehicleCategory = "Luxury Sedan"
	CategoryLuxurySUV   VehicleCategory = "Luxury SUV"
)

// AllCategories returns the categories in their canonical display order.
func AllCategories() []VehicleCategory {
	return []VehicleCategory{
		CategoryEconomy,
		CategoryCompact,
		CategoryStandard,
		CategorySUVCompact,
		CategorySUVStandard,
		CategorySUVLarge,
		CategoryLuxurySedan,
		CategoryLuxurySUV,
	}
}

// ParseCategory validates an external category string against the closed set.
func ParseCategory(s string) (VehicleCategory, error) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown vehicle category: %q", s)
}

// CatalogEntry maps a canonical vehicle model name to its category.
type CatalogEntry struct {
	Model    string          `yaml:"model" json:"model"`
	Category VehicleCategory `yaml:"category" json:"category"`
	Seats    int             `yaml:"seats" json:"seats"`
	Notes    string          `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// MatchTier reports which classifier stage resolved a vehicle name.
type MatchTier string

const (
	MatchExact      MatchTier = "exact"
	MatchSimilarity MatchTier = "similarity"
	MatchKeyword    MatchTier = "keyword"
)

// ClassificationResult is the classifier output for one vehicle name.
type ClassificationResult struct {
	Input      string          `json:"input"`
	Category   VehicleCategory `json:"category"`
	Tier       MatchTier       `json:"tier"`
	MatchedKey string          `json:"matched_key,omitempty"`
	Score      float64         `json:"score,omitempty"`
}
