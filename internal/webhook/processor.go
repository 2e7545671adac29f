package webhook

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"jellywatch/internal/detect"
	"jellywatch/internal/fingerprint"
	"jellywatch/internal/media"
	"jellywatch/internal/store"
)

// Processor runs one media event through the classification pipeline:
// project, fingerprint, lookup, rename-detect or classify, persist.
type Processor struct {
	store    *store.Store
	detector *detect.Detector
	watch    detect.WatchConfig
	logger   *slog.Logger
}

// Outcome is the result of processing one event.
type Outcome struct {
	EventID  string
	Decision detect.Decision
	Changes  []detect.Change
	Summary  string
	Previous *media.Record
}

// NewProcessor builds the event processor.
func NewProcessor(st *store.Store, detector *detect.Detector, watch detect.WatchConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		store:    st,
		detector: detector,
		watch:    watch,
		logger:   logger.With(slog.String("component", "processor")),
	}
}

// Process classifies and persists one added/updated item. Storage
// failures are absorbed by the store layer; the outcome always carries a
// decision so the caller can respond.
func (p *Processor) Process(ctx context.Context, full media.FullRecord) Outcome {
	outcome := Outcome{EventID: uuid.NewString()}
	logger := p.logger.With(slog.String("event_id", outcome.EventID))

	rec := media.FromFull(full)
	rec.Fingerprint = fingerprint.Record(&rec)

	existing := p.store.Get(ctx, rec.ItemID)
	if existing == nil {
		candidates := p.store.ByName(ctx, rec.Name)
		if ok, prev := p.detector.IsRename(&rec, candidates); ok {
			// Save the new identifier first so the item is never absent
			// from the store, then retire the superseded row.
			p.store.Save(ctx, &rec)
			p.store.Delete(ctx, prev.ItemID)
			outcome.Decision = detect.DecisionRenamed
			outcome.Previous = prev
			logger.Info("item renamed",
				slog.String("item_id", rec.ItemID),
				slog.String("previous_id", prev.ItemID),
				slog.String("name", rec.Name))
			return outcome
		}

		p.store.Save(ctx, &rec)
		outcome.Decision = detect.DecisionNew
		logger.Info("new item",
			slog.String("item_id", rec.ItemID),
			slog.String("name", rec.Name),
			slog.String("kind", string(rec.Kind)))
		return outcome
	}

	outcome.Previous = existing
	if existing.Fingerprint == rec.Fingerprint {
		// Refresh non-hashed fields (path, library) without notifying.
		p.store.Save(ctx, &rec)
		outcome.Decision = detect.DecisionUnchanged
		logger.Debug("item unchanged", slog.String("item_id", rec.ItemID))
		return outcome
	}

	changes := p.detector.Changes(existing, &rec, p.watch)
	p.store.Save(ctx, &rec)
	if len(changes) == 0 {
		// Fingerprint moved on an unwatched attribute.
		outcome.Decision = detect.DecisionUnchanged
		logger.Debug("item changed outside watched categories",
			slog.String("item_id", rec.ItemID))
		return outcome
	}

	outcome.Decision = detect.DecisionUpgraded
	outcome.Changes = changes
	outcome.Summary = p.detector.Summarize(changes)
	logger.Info("item upgraded",
		slog.String("item_id", rec.ItemID),
		slog.String("name", rec.Name),
		slog.String("summary", outcome.Summary))
	return outcome
}

// ProcessDelete removes an item and returns the prior record when one
// existed.
func (p *Processor) ProcessDelete(ctx context.Context, itemID string) (*media.Record, bool) {
	prev := p.store.Get(ctx, itemID)
	deleted := p.store.Delete(ctx, itemID)
	if deleted {
		p.logger.Info("item deleted", slog.String("item_id", itemID))
	} else {
		p.logger.Debug("delete for unknown item", slog.String("item_id", itemID))
	}
	return prev, deleted
}
