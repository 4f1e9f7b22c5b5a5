package strategies

import (
	"fmt"

	"github.com/ases-trading/ases/internal/store"
)

// Strategy lifecycle statuses.
const (
	StatusCandidate = "candidate"
	StatusActive    = "active"
	StatusRetired   = "retired"
)

// Field names stamped or filtered on by the repository. Everything else in a
// record is schema owned by the caller and stored verbatim.
const (
	FieldStrategyID = "strategy_id"
	FieldName       = "name"
	FieldStatus     = "status"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
	FieldRecordedAt = "recorded_at"
)

// Record is an opaque strategy document.
type Record map[string]interface{}

// Validate checks the minimal required field set before a write:
// a non-empty strategy identifier and a non-empty name.
func (r Record) Validate() error {
	if r == nil {
		return fmt.Errorf("nil record: %w", store.ErrInvalidInput)
	}
	for _, field := range []string{FieldStrategyID, FieldName} {
		value, ok := r[field].(string)
		if !ok || value == "" {
			return fmt.Errorf("missing required field %q: %w", field, store.ErrInvalidInput)
		}
	}
	return nil
}

// StrategyID returns the record's strategy identifier, or "" when absent.
func (r Record) StrategyID() string {
	id, _ := r[FieldStrategyID].(string)
	return id
}

func validStatus(status string) bool {
	switch status {
	case StatusCandidate, StatusActive, StatusRetired:
		return true
	}
	return false
}
