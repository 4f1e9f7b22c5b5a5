package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fsCollection implements Collection on top of a Firestore collection
// reference. Every call runs under a bounded timeout.
type fsCollection struct {
	ref     *firestore.CollectionRef
	timeout time.Duration
}

func (c *fsCollection) Add(ctx context.Context, data map[string]interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ref, _, err := c.ref.Add(ctx, data)
	if err != nil {
		return "", translateError(err)
	}
	return ref.ID, nil
}

func (c *fsCollection) Set(ctx context.Context, id string, data map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.ref.Doc(id).Set(ctx, data)
	return translateError(err)
}

func (c *fsCollection) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	_, err := c.ref.Doc(id).Update(ctx, updates)
	return translateError(err)
}

func (c *fsCollection) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	snap, err := c.ref.Doc(id).Get(ctx)
	if err != nil {
		return nil, translateError(err)
	}
	return snap.Data(), nil
}

func (c *fsCollection) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Firestore deletes are idempotent; deleting an absent document succeeds.
	_, err := c.ref.Doc(id).Delete(ctx)
	return translateError(err)
}

func (c *fsCollection) Query() Query {
	return &fsQuery{query: c.ref.Query, timeout: c.timeout}
}

// fsQuery implements Query over firestore.Query, which is already a value
// type with chainable builders.
type fsQuery struct {
	query   firestore.Query
	timeout time.Duration
}

func (q *fsQuery) Where(field, op string, value interface{}) Query {
	return &fsQuery{query: q.query.Where(field, op, value), timeout: q.timeout}
}

func (q *fsQuery) OrderBy(field string, descending bool) Query {
	dir := firestore.Asc
	if descending {
		dir = firestore.Desc
	}
	return &fsQuery{query: q.query.OrderBy(field, dir), timeout: q.timeout}
}

func (q *fsQuery) Limit(n int) Query {
	return &fsQuery{query: q.query.Limit(n), timeout: q.timeout}
}

func (q *fsQuery) Documents(ctx context.Context) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	var docs []Document
	iter := q.query.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query iteration failed: %w", err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// translateError maps Firestore status codes onto the store error vars so
// callers can classify with errors.Is.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, status.Convert(err).Message())
	}
	return err
}
