// Package store owns the Firestore connection and provides entity-scoped
// collection access for the rest of the application.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/ases-trading/ases/internal/config"
)

const defaultOpTimeout = 30 * time.Second

// Store wraps a single Firestore client held for the process lifetime.
// All collection handles derive their physical names from the configured
// collection prefix.
type Store struct {
	client   *firestore.Client
	firebase config.FirebaseConfig
	timeout  time.Duration
	log      zerolog.Logger
}

// New establishes the Firestore connection. It verifies that the service
// account key exists at the configured path, initializes the Firebase app and
// creates the client. Construction is all-or-nothing: any failure is logged
// and returned, and no partially initialized store is handed out.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	credPath := cfg.Firebase.CredentialPath
	if _, err := os.Stat(credPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"%w at %s, download serviceAccountKey.json from the Firebase console",
				ErrCredentialMissing, credPath)
		}
		return nil, fmt.Errorf("failed to stat firebase credentials at %s: %w", credPath, err)
	}

	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: cfg.Firebase.ProjectID},
		option.WithCredentialsFile(credPath),
	)
	if err != nil {
		log.Error().Err(err).Str("project", cfg.Firebase.ProjectID).
			Msg("Firebase initialization failed")
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		log.Error().Err(err).Str("project", cfg.Firebase.ProjectID).
			Msg("Firestore client creation failed")
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	log.Info().Str("project", cfg.Firebase.ProjectID).
		Str("collection_prefix", cfg.Firebase.CollectionPrefix).
		Msg("Firestore connection established")

	return NewWithClient(client, cfg, log), nil
}

// NewWithClient builds a store around an existing Firestore client instead of
// initializing a new one. The caller keeps ownership of the client lifetime;
// this is how a second store in the same process shares the connection.
func NewWithClient(client *firestore.Client, cfg *config.Config, log zerolog.Logger) *Store {
	timeout := time.Duration(cfg.Exchange.Timeout) * time.Second
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return &Store{
		client:   client,
		firebase: cfg.Firebase,
		timeout:  timeout,
		log:      log.With().Str("component", "store").Logger(),
	}
}

// Client returns the underlying Firestore client, for sharing it with another
// store or for read paths owned by collaborating components.
func (s *Store) Client() *firestore.Client {
	return s.client
}

// Collection returns a handle to the physical collection backing the given
// logical entity name.
func (s *Store) Collection(entity string) Collection {
	return &fsCollection{
		ref:     s.client.Collection(s.firebase.CollectionName(entity)),
		timeout: s.timeout,
	}
}

// HealthCheck verifies the connection is answering by listing collection IDs.
func (s *Store) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore health check failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
