package catalog

import (
	"fmt"
	"os"
	"strings"

	"RentRate/internal/domain/models"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable vehicle-model lookup table. It is loaded once at
// startup and only read afterwards; key iteration order is load order, which
// also decides similarity ties (first maximal match wins).
type Catalog struct {
	keys    []string
	entries map[string]models.CatalogEntry
}

// New builds a catalog from entries, keyed by normalized model name.
// Duplicate models keep the first entry; entries with an unknown category
// are rejected.
func New(entries []models.CatalogEntry) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]models.CatalogEntry, len(entries))}
	for _, e := range entries {
		if strings.TrimSpace(e.Model) == "" {
			return nil, fmt.Errorf("catalog entry with empty model name")
		}
		if _, err := models.ParseCategory(string(e.Category)); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.Model, err)
		}
		key := Normalize(e.Model)
		if _, ok := c.entries[key]; ok {
			continue
		}
		c.entries[key] = e
		c.keys = append(c.keys, key)
	}
	return c, nil
}

// Load reads a YAML catalog file (a list of entries).
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var entries []models.CatalogEntry
	if err := yaml.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c, err := New(entries)
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("catalog %s has no entries", path)
	}
	return c, nil
}

// Lookup returns the entry for an already-normalized model name.
func (c *Catalog) Lookup(normalized string) (models.CatalogEntry, bool) {
	e, ok := c.entries[normalized]
	return e, ok
}

// Keys returns the normalized model names in load order.
func (c *Catalog) Keys() []string { return c.keys }

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.keys) }

// suffixes dropped during normalization; these show up in aggregator feeds
// ("Toyota Yaris or similar", "Kia Sportage SUV").
var dropSuffixes = []string{" gps", " sedan", " hatchback", " suv", " or similar"}

// Normalize collapses whitespace, lowercases, and strips common listing
// suffixes so catalog keys and external names compare cleanly.
func Normalize(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = strings.ToLower(name)
	for _, s := range dropSuffixes {
		name = strings.ReplaceAll(name, s, "")
	}
	return strings.TrimSpace(name)
}

// Default returns the built-in fleet catalog. A deployment normally loads a
// YAML file instead; this keeps the service usable without one.
func Default() *Catalog {
	c, err := New(defaultFleet)
	if err != nil {
		// defaultFleet is compile-time data; an error here is a programming bug.
		panic(err)
	}
	return c
}

var defaultFleet = []models.CatalogEntry{
	{Model: "Hyundai Accent", Category: models.CategoryEconomy, Seats: 5},
	{Model: "Kia Picanto", Category: models.CategoryEconomy, Seats: 5},
	{Model: "Nissan Sunny", Category: models.CategoryEconomy, Seats: 5},
	{Model: "Chevrolet Spark", Category: models.CategoryEconomy, Seats: 4},
	{Model: "Hyundai i10", Category: models.CategoryEconomy, Seats: 4},
	{Model: "Toyota Yaris", Category: models.CategoryCompact, Seats: 5},
	{Model: "Hyundai Elantra", Category: models.CategoryCompact, Seats: 5},
	{Model: "Kia Cerato", Category: models.CategoryCompact, Seats: 5},
	{Model: "Kia Pegas", Category: models.CategoryCompact, Seats: 5},
	{Model: "Toyota Camry", Category: models.CategoryStandard, Seats: 5},
	{Model: "Hyundai Sonata", Category: models.CategoryStandard, Seats: 5},
	{Model: "Nissan Altima", Category: models.CategoryStandard, Seats: 5},
	{Model: "Toyota Corolla", Category: models.CategoryStandard, Seats: 5},
	{Model: "Chevrolet Malibu", Category: models.CategoryStandard, Seats: 5},
	{Model: "Hyundai Tucson", Category: models.CategorySUVCompact, Seats: 5},
	{Model: "Nissan Qashqai", Category: models.CategorySUVCompact, Seats: 5},
	{Model: "Kia Sportage", Category: models.CategorySUVCompact, Seats: 5},
	{Model: "Hyundai Creta", Category: models.CategorySUVCompact, Seats: 5},
	{Model: "Hyundai Kona", Category: models.CategorySUVCompact, Seats: 5},
	{Model: "Toyota RAV4", Category: models.CategorySUVStandard, Seats: 5},
	{Model: "Nissan X-Trail", Category: models.CategorySUVStandard, Seats: 7},
	{Model: "Hyundai Santa Fe", Category: models.CategorySUVStandard, Seats: 7},
	{Model: "Toyota Fortuner", Category: models.CategorySUVStandard, Seats: 7},
	{Model: "Toyota Land Cruiser", Category: models.CategorySUVLarge, Seats: 8},
	{Model: "Nissan Patrol", Category: models.CategorySUVLarge, Seats: 8},
	{Model: "Chevrolet Tahoe", Category: models.CategorySUVLarge, Seats: 8},
	{Model: "Toyota Highlander", Category: models.CategorySUVLarge, Seats: 8},
	{Model: "BMW 5 Series", Category: models.CategoryLuxurySedan, Seats: 5},
	{Model: "Mercedes E-Class", Category: models.CategoryLuxurySedan, Seats: 5},
	{Model: "Audi A6", Category: models.CategoryLuxurySedan, Seats: 5},
	{Model: "Chrysler 300C", Category: models.CategoryLuxurySedan, Seats: 5},
	{Model: "BMW X5", Category: models.CategoryLuxurySUV, Seats: 5},
	{Model: "Mercedes GLE", Category: models.CategoryLuxurySUV, Seats: 5},
	{Model: "Audi Q7", Category: models.CategoryLuxurySUV, Seats: 7},
	{Model: "Range Rover", Category: models.CategoryLuxurySUV, Seats: 5},
}
