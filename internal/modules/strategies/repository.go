// Package strategies persists trading-strategy records and their performance
// history through the store layer. Expected failures (validation, transient
// store errors) are logged here and reported as error returns; retry policy
// belongs to the caller.
package strategies

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ases-trading/ases/internal/store"
)

// Logical entity names; the store maps them to physical collections via the
// configured prefix.
const (
	strategiesEntity  = "strategies"
	performanceEntity = "performance"
)

// Repository handles strategy document operations.
type Repository struct {
	strategies  store.Collection
	performance store.Collection
	log         zerolog.Logger
}

// NewRepository creates a new strategy repository on top of a store source.
func NewRepository(src store.Source, log zerolog.Logger) *Repository {
	return &Repository{
		strategies:  src.Collection(strategiesEntity),
		performance: src.Collection(performanceEntity),
		log:         log.With().Str("repository", "strategies").Logger(),
	}
}

// Save validates and writes a strategy record, keyed by its strategy_id.
// Missing timestamps and status are stamped; caller-supplied fields are
// stored verbatim. Returns the document identifier on success.
func (r *Repository) Save(ctx context.Context, rec Record) (string, error) {
	if err := rec.Validate(); err != nil {
		r.log.Warn().Err(err).Msg("Rejected invalid strategy record")
		return "", fmt.Errorf("failed to save strategy: %w", err)
	}

	id := rec.StrategyID()
	now := time.Now().UTC()

	doc := make(map[string]interface{}, len(rec)+3)
	for k, v := range rec {
		doc[k] = v
	}
	if _, ok := doc[FieldCreatedAt]; !ok {
		doc[FieldCreatedAt] = now
	}
	if _, ok := doc[FieldStatus]; !ok {
		doc[FieldStatus] = StatusCandidate
	}
	doc[FieldUpdatedAt] = now

	if err := r.strategies.Set(ctx, id, doc); err != nil {
		r.log.Error().Err(err).Str("strategy_id", id).Msg("Failed to save strategy")
		return "", fmt.Errorf("failed to save strategy %s: %w", id, err)
	}

	r.log.Info().Str("strategy_id", id).Msg("Strategy saved")
	return id, nil
}

// Get retrieves a strategy record by its identifier.
func (r *Repository) Get(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return nil, fmt.Errorf("empty strategy id: %w", store.ErrInvalidInput)
	}

	doc, err := r.strategies.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy %s: %w", id, err)
	}
	return Record(doc), nil
}

// Active returns all strategies currently in the active state.
func (r *Repository) Active(ctx context.Context) ([]Record, error) {
	docs, err := r.strategies.Query().
		Where(FieldStatus, "==", StatusActive).
		Documents(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list active strategies")
		return nil, fmt.Errorf("failed to list active strategies: %w", err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, Record(doc.Data))
	}
	return records, nil
}

// UpdateStatus moves a strategy to a new lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return fmt.Errorf("empty strategy id: %w", store.ErrInvalidInput)
	}
	if !validStatus(status) {
		return fmt.Errorf("unknown status %q: %w", status, store.ErrInvalidInput)
	}

	err := r.strategies.Update(ctx, id, map[string]interface{}{
		FieldStatus:    status,
		FieldUpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		r.log.Error().Err(err).Str("strategy_id", id).Str("status", status).
			Msg("Failed to update strategy status")
		return fmt.Errorf("failed to update status of strategy %s: %w", id, err)
	}

	r.log.Info().Str("strategy_id", id).Str("status", status).Msg("Strategy status updated")
	return nil
}

// RecordPerformance appends a performance document for a strategy and
// returns its assigned identifier.
func (r *Repository) RecordPerformance(ctx context.Context, strategyID string, metrics map[string]float64) (string, error) {
	if strategyID == "" {
		return "", fmt.Errorf("empty strategy id: %w", store.ErrInvalidInput)
	}
	if len(metrics) == 0 {
		return "", fmt.Errorf("empty metrics: %w", store.ErrInvalidInput)
	}

	doc := map[string]interface{}{
		FieldStrategyID: strategyID,
		FieldRecordedAt: time.Now().UTC(),
		"metrics":       metrics,
	}

	id, err := r.performance.Add(ctx, doc)
	if err != nil {
		r.log.Error().Err(err).Str("strategy_id", strategyID).
			Msg("Failed to record strategy performance")
		return "", fmt.Errorf("failed to record performance for strategy %s: %w", strategyID, err)
	}
	return id, nil
}

// PerformanceHistory returns a strategy's performance documents from the
// trailing window of the given number of days, newest first.
func (r *Repository) PerformanceHistory(ctx context.Context, strategyID string, days int) ([]Record, error) {
	if strategyID == "" {
		return nil, fmt.Errorf("empty strategy id: %w", store.ErrInvalidInput)
	}
	if days <= 0 {
		return nil, fmt.Errorf("non-positive window of %d days: %w", days, store.ErrInvalidInput)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	docs, err := r.performance.Query().
		Where(FieldStrategyID, "==", strategyID).
		Where(FieldRecordedAt, ">=", cutoff).
		OrderBy(FieldRecordedAt, true).
		Documents(ctx)
	if err != nil {
		r.log.Error().Err(err).Str("strategy_id", strategyID).
			Msg("Failed to load performance history")
		return nil, fmt.Errorf("failed to load performance history for strategy %s: %w", strategyID, err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, Record(doc.Data))
	}
	return records, nil
}

// PrunePerformance deletes performance documents older than the given number
// of days and returns how many were removed.
func (r *Repository) PrunePerformance(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("non-positive age of %d days: %w", olderThanDays, store.ErrInvalidInput)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	docs, err := r.performance.Query().
		Where(FieldRecordedAt, "<", cutoff).
		Documents(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query performance documents for pruning")
		return 0, fmt.Errorf("failed to query performance documents for pruning: %w", err)
	}

	deleted := 0
	for _, doc := range docs {
		if err := r.performance.Delete(ctx, doc.ID); err != nil {
			r.log.Error().Err(err).Str("doc_id", doc.ID).
				Msg("Failed to delete aged performance document")
			return deleted, fmt.Errorf("failed to delete performance document %s: %w", doc.ID, err)
		}
		deleted++
	}

	if deleted > 0 {
		r.log.Info().Int("deleted", deleted).Int("older_than_days", olderThanDays).
			Msg("Pruned aged performance documents")
	}
	return deleted, nil
}
