// Package memory provides an in-memory store backend implementing the same
// collection interfaces as the Firestore-backed store. It is used by unit
// tests and carries no durability guarantees.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ases-trading/ases/internal/store"
)

// Store is an in-memory implementation of store.Source.
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[string]*Collection)}
}

// Collection returns the in-memory collection for the given entity,
// creating it on first access.
func (s *Store) Collection(entity string) store.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[entity]
	if !ok {
		col = &Collection{docs: make(map[string]map[string]interface{})}
		s.collections[entity] = col
	}
	return col
}

// Collection is a mutex-guarded map of documents keyed by ID.
type Collection struct {
	mu   sync.RWMutex
	docs map[string]map[string]interface{}
}

// Add stores data under a freshly generated document ID.
func (c *Collection) Add(_ context.Context, data map[string]interface{}) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	c.docs[id] = copyDoc(data)
	return id, nil
}

// Set replaces the document stored under id.
func (c *Collection) Set(_ context.Context, id string, data map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs[id] = copyDoc(data)
	return nil
}

// Update merges fields into an existing document.
func (c *Collection) Update(_ context.Context, id string, fields map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// Get retrieves a copy of the document stored under id.
func (c *Collection) Get(_ context.Context, id string) (map[string]interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyDoc(doc), nil
}

// Delete removes the document stored under id. Absent documents are ignored.
func (c *Collection) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.docs, id)
	return nil
}

// Query starts a filtered read over the collection.
func (c *Collection) Query() store.Query {
	return &query{col: c}
}

type filter struct {
	field string
	op    string
	value interface{}
}

type order struct {
	field      string
	descending bool
}

type query struct {
	col     *Collection
	filters []filter
	orderBy *order
	limit   int
}

func (q *query) Where(field, op string, value interface{}) store.Query {
	next := *q
	next.filters = append(append([]filter{}, q.filters...), filter{field, op, value})
	return &next
}

func (q *query) OrderBy(field string, descending bool) store.Query {
	next := *q
	next.orderBy = &order{field, descending}
	return &next
}

func (q *query) Limit(n int) store.Query {
	next := *q
	next.limit = n
	return &next
}

func (q *query) Documents(_ context.Context) ([]store.Document, error) {
	q.col.mu.RLock()
	defer q.col.mu.RUnlock()

	var result []store.Document
	for id, doc := range q.col.docs {
		if q.matches(doc) {
			result = append(result, store.Document{ID: id, Data: copyDoc(doc)})
		}
	}

	if q.orderBy != nil {
		field, desc := q.orderBy.field, q.orderBy.descending
		sort.Slice(result, func(i, j int) bool {
			cmp, ok := compare(result[i].Data[field], result[j].Data[field])
			if !ok {
				return false
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.limit > 0 && len(result) > q.limit {
		result = result[:q.limit]
	}
	return result, nil
}

func (q *query) matches(doc map[string]interface{}) bool {
	for _, f := range q.filters {
		got, ok := doc[f.field]
		if !ok {
			return false
		}
		cmp, comparable := compare(got, f.value)
		if !comparable {
			return false
		}
		switch f.op {
		case "==":
			if cmp != 0 {
				return false
			}
		case "!=":
			if cmp == 0 {
				return false
			}
		case "<":
			if cmp >= 0 {
				return false
			}
		case "<=":
			if cmp > 0 {
				return false
			}
		case ">":
			if cmp <= 0 {
				return false
			}
		case ">=":
			if cmp < 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compare orders two field values. Strings, times, booleans and numeric
// values are supported; mixed numeric widths are coerced to float64.
func compare(a, b interface{}) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case av.Before(bv):
			return -1, true
		case av.After(bv):
			return 1, true
		}
		return 0, true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		return 1, true
	}

	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// copyDoc returns a shallow copy so callers cannot mutate stored state.
func copyDoc(doc map[string]interface{}) map[string]interface{} {
	cp := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		cp[k] = v
	}
	return cp
}
