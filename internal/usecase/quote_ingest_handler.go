package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"RentRate/internal/domain/models"
	"RentRate/internal/services/competitor"
	applogger "RentRate/pkg/logger"
	"RentRate/pkg/util"
)

// quoteBatch is the wire shape the scraping pipeline publishes: one wholesale
// scrape of a branch per message. Scrapers disagree on timestamp formats, so
// scraped_at is parsed leniently (RFC3339 or unix seconds).
type quoteBatch struct {
	Branch    string                   `json:"branch"`
	ScrapedAt string                   `json:"scraped_at"`
	Quotes    []models.CompetitorQuote `json:"quotes"`
}

// QuoteIngestHandler consumes scraped competitor quote batches, aggregates
// them, and swaps the result into the snapshot store.
type QuoteIngestHandler struct {
	topic      string
	aggregator *competitor.Aggregator
	store      *competitor.Store
	l          *applogger.Logger
}

func NewQuoteIngestHandler(topic string, aggregator *competitor.Aggregator, store *competitor.Store) *QuoteIngestHandler {
	return &QuoteIngestHandler{topic: topic, aggregator: aggregator, store: store}
}

// SetLogger injects a structured logger.
func (h *QuoteIngestHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *QuoteIngestHandler) Topic() string { return h.topic }

// Handle processes one scrape batch. Malformed payloads are dropped, not
// retried: the next scrape supersedes them anyway.
func (h *QuoteIngestHandler) Handle(ctx context.Context, data []byte) error {
	var batch quoteBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		if h.l != nil {
			h.l.Warn("dropping malformed quote batch", applogger.Error(err))
		}
		return nil
	}
	if batch.Branch == "" {
		if h.l != nil {
			h.l.Warn("dropping quote batch without branch")
		}
		return nil
	}
	refreshedAt := util.ParseTimeDefault(batch.ScrapedAt, time.Now())

	snap := h.aggregator.BuildSnapshot(batch.Branch, refreshedAt, batch.Quotes)
	if err := h.store.Replace(snap); err != nil {
		return fmt.Errorf("replace snapshot for %s: %w", batch.Branch, err)
	}
	if h.l != nil {
		h.l.Info("competitor quotes ingested",
			applogger.String("branch", batch.Branch),
			applogger.Int("quotes", len(batch.Quotes)),
			applogger.Int("categories", len(snap.Summaries)),
		)
	}
	return nil
}
