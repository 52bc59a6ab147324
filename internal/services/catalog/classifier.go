package catalog

import (
	"strings"

	"RentRate/internal/domain/models"
	domsvc "RentRate/internal/domain/service"
)

// DefaultSimilarityThreshold accepts a fuzzy match at 80% similarity or
// better, matching the observed accuracy of the original matcher.
const DefaultSimilarityThreshold = 0.80

// Classifier resolves vehicle names to internal categories in three tiers:
// exact catalog hit, similarity match, keyword heuristics. It never fails:
// tier three always produces a category.
type Classifier struct {
	catalog   *Catalog
	scorer    Scorer
	threshold float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithScorer swaps the similarity scoring algorithm.
func WithScorer(s Scorer) Option {
	return func(c *Classifier) { c.scorer = s }
}

// WithThreshold overrides the similarity acceptance threshold.
func WithThreshold(t float64) Option {
	return func(c *Classifier) { c.threshold = t }
}

// NewClassifier builds a classifier over an immutable catalog.
func NewClassifier(cat *Catalog, opts ...Option) *Classifier {
	c := &Classifier{
		catalog:   cat,
		scorer:    EditDistanceScorer{},
		threshold: DefaultSimilarityThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify maps a vehicle name to a category. Pure function over the
// catalog: same input always yields the same result.
func (c *Classifier) Classify(vehicleName string) models.ClassificationResult {
	res := models.ClassificationResult{Input: vehicleName}
	norm := Normalize(vehicleName)

	// Tier 1: exact catalog hit after normalization.
	if e, ok := c.catalog.Lookup(norm); ok {
		res.Category = e.Category
		res.Tier = models.MatchExact
		res.MatchedKey = e.Model
		res.Score = 1.0
		return res
	}

	// Tier 2: best similarity over all catalog keys. Strict greater-than
	// keeps the first maximal key in load order on ties.
	var bestKey string
	var bestScore float64
	for _, key := range c.catalog.Keys() {
		if s := c.scorer.Score(norm, key); s > bestScore {
			bestScore = s
			bestKey = key
		}
	}
	if bestScore >= c.threshold {
		e, _ := c.catalog.Lookup(bestKey)
		res.Category = e.Category
		res.Tier = models.MatchSimilarity
		res.MatchedKey = e.Model
		res.Score = bestScore
		return res
	}

	// Tier 3: keyword heuristics on the raw (lowercased) name, so body-style
	// words stripped by normalization still count.
	res.Category = keywordCategory(strings.ToLower(strings.Join(strings.Fields(vehicleName), " ")))
	res.Tier = models.MatchKeyword
	return res
}

// Keyword token sets, checked by substring. Order of the checks below is the
// contract: luxury brands first, then SUV body styles, then economy, then
// compact, with Standard as the final default.
var (
	luxuryTokens = []string{
		"luxury", "premium", "bmw", "mercedes", "benz", "audi", "lexus",
		"porsche", "jaguar", "maserati", "bentley", "cadillac", "genesis",
		"infiniti", "range rover", "chrysler",
	}
	suvStyleTokens = []string{
		"suv", "4x4", "crossover", "x5", "x6", "x7", "gle", "gls", "glc",
		"q7", "q8", "cayenne", "escalade", "land cruiser", "patrol", "tahoe",
		"rav4", "tucson", "sportage", "qashqai", "x-trail", "fortuner",
		"highlander", "santa fe", "creta", "kona", "juke", "range rover",
	}
	suvLargeTokens = []string{
		"land cruiser", "patrol", "tahoe", "suburban", "expedition",
		"highlander", "large", "full-size", "fullsize", "7 seater", "8 seater",
	}
	suvCompactTokens = []string{
		"tucson", "qashqai", "sportage", "creta", "kona", "juke",
		"compact", "small", "crossover",
	}
	economyTokens = []string{
		"economy", "mini", "small", "picanto", "spark", "i10", "accent", "sunny",
	}
	compactTokens = []string{
		"compact", "yaris", "elantra", "cerato", "pegas",
	}
)

func hasAny(name string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}

func keywordCategory(name string) models.VehicleCategory {
	if hasAny(name, luxuryTokens) {
		if hasAny(name, suvStyleTokens) {
			return models.CategoryLuxurySUV
		}
		return models.CategoryLuxurySedan
	}
	if hasAny(name, suvStyleTokens) {
		if hasAny(name, suvLargeTokens) {
			return models.CategorySUVLarge
		}
		if hasAny(name, suvCompactTokens) {
			return models.CategorySUVCompact
		}
		return models.CategorySUVStandard
	}
	if hasAny(name, economyTokens) {
		return models.CategoryEconomy
	}
	if hasAny(name, compactTokens) {
		return models.CategoryCompact
	}
	return models.CategoryStandard
}

var _ domsvc.Classifier = (*Classifier)(nil)
