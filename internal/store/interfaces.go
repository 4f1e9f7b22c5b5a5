package store

import "context"

// Document is a single stored record together with its identifier.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Source provides entity-scoped collection handles. Implemented by Store
// (Firestore) and by the memory backend used in tests.
type Source interface {
	Collection(entity string) Collection
}

// Collection is the subset of a document collection used by repositories.
type Collection interface {
	// Add stores data under a newly assigned document ID and returns it.
	Add(ctx context.Context, data map[string]interface{}) (string, error)

	// Set stores data under the given document ID, replacing any existing document.
	Set(ctx context.Context, id string, data map[string]interface{}) error

	// Update merges the given fields into an existing document.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	// Get retrieves a document by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (map[string]interface{}, error)

	// Delete removes a document by ID. Deleting an absent document is not an error.
	Delete(ctx context.Context, id string) error

	// Query starts a filtered read over the collection.
	Query() Query
}

// Query is a chainable filtered read. Implementations return new values from
// Where/OrderBy/Limit rather than mutating the receiver.
type Query interface {
	// Where adds a field filter. Supported operators are the Firestore set
	// ("==", "!=", "<", "<=", ">", ">=").
	Where(field, op string, value interface{}) Query

	// OrderBy sorts results by the given field.
	OrderBy(field string, descending bool) Query

	// Limit caps the number of returned documents.
	Limit(n int) Query

	// Documents executes the query and returns all matching documents.
	Documents(ctx context.Context) ([]Document, error)
}
