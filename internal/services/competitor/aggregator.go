package competitor

import (
	"sort"
	"time"

	"RentRate/internal/domain/models"
	domsvc "RentRate/internal/domain/service"
	applogger "RentRate/pkg/logger"
)

// MaxDisplayQuotes caps the per-category quote list kept for display. The
// category average is computed over the full deduplicated set before this
// truncation.
const MaxDisplayQuotes = 4

// MaxSanePrice drops obviously broken quotes (currency glitches, parse
// failures upstream).
const MaxSanePrice = 5000

// Aggregator turns raw competitor quotes into per-category summaries:
// classify, deduplicate per supplier, validate, average, truncate.
type Aggregator struct {
	classifier domsvc.Classifier
	l          *applogger.Logger
}

func NewAggregator(classifier domsvc.Classifier) *Aggregator {
	return &Aggregator{classifier: classifier}
}

// SetLogger injects a structured logger.
func (a *Aggregator) SetLogger(l *applogger.Logger) { a.l = l }

// Aggregate summarizes quotes per category. An empty input yields an empty
// map, never an error; a category with no valid quotes is simply absent.
func (a *Aggregator) Aggregate(quotes []models.CompetitorQuote) map[models.VehicleCategory]models.CategorySummary {
	type key struct {
		cat      models.VehicleCategory
		supplier string
	}

	// Classify and deduplicate: lowest price per (category, supplier),
	// remembering which raw vehicle name produced it.
	best := make(map[key]models.CompetitorQuote)
	for _, q := range quotes {
		if q.Price <= 0 || q.Price > MaxSanePrice {
			if a.l != nil {
				a.l.Warn("competitor quote dropped",
					applogger.String("supplier", q.Supplier),
					applogger.String("vehicle", q.VehicleName),
					applogger.Any("price", q.Price),
				)
			}
			continue
		}
		cat := a.classifier.Classify(q.VehicleName).Category
		k := key{cat: cat, supplier: q.Supplier}
		if cur, ok := best[k]; !ok || q.Price < cur.Price {
			best[k] = q
		}
	}

	byCat := make(map[models.VehicleCategory][]models.CompetitorQuote)
	for k, q := range best {
		byCat[k.cat] = append(byCat[k.cat], q)
	}

	out := make(map[models.VehicleCategory]models.CategorySummary, len(byCat))
	for cat, qs := range byCat {
		sort.Slice(qs, func(i, j int) bool {
			if qs[i].Price != qs[j].Price {
				return qs[i].Price < qs[j].Price
			}
			return qs[i].Supplier < qs[j].Supplier
		})

		var sum float64
		for _, q := range qs {
			sum += q.Price
		}
		s := models.CategorySummary{
			Category:      cat,
			AveragePrice:  sum / float64(len(qs)),
			MinPrice:      qs[0].Price,
			MaxPrice:      qs[len(qs)-1].Price,
			SupplierCount: len(qs),
		}
		if len(qs) < 2 {
			// Kept, but flagged: a single supplier is a weak benchmark.
			s.LowSample = true
			if a.l != nil {
				a.l.Warn("competitor category has thin coverage",
					applogger.String("category", string(cat)),
					applogger.Int("suppliers", len(qs)),
				)
			}
		}
		n := len(qs)
		if n > MaxDisplayQuotes {
			n = MaxDisplayQuotes
		}
		s.Quotes = append([]models.CompetitorQuote(nil), qs[:n]...)
		out[cat] = s
	}
	return out
}

// BuildSnapshot aggregates quotes into a branch snapshot stamped at
// refreshedAt (the scrape time, not the processing time).
func (a *Aggregator) BuildSnapshot(branch string, refreshedAt time.Time, quotes []models.CompetitorQuote) *models.CompetitorSnapshot {
	return &models.CompetitorSnapshot{
		Branch:      branch,
		RefreshedAt: refreshedAt,
		Summaries:   a.Aggregate(quotes),
	}
}
