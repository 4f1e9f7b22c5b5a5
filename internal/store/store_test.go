package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ases-trading/ases/internal/config"
	"github.com/ases-trading/ases/internal/store"
)

func TestNew_CredentialMissing(t *testing.T) {
	cfg := config.Load()
	cfg.Firebase.CredentialPath = filepath.Join(t.TempDir(), "serviceAccountKey.json")

	st, err := store.New(context.Background(), cfg, zerolog.Nop())

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrCredentialMissing)
	assert.Contains(t, err.Error(), cfg.Firebase.CredentialPath)
	assert.Nil(t, st, "no usable store may be returned on construction failure")
}

func TestNewWithClient_ReusesExistingClient(t *testing.T) {
	// The emulator variable lets the client be constructed without real
	// credentials; no connection is dialed until an operation runs.
	t.Setenv("FIRESTORE_EMULATOR_HOST", "localhost:1")

	client, err := firestore.NewClient(context.Background(), "ases-trading")
	require.NoError(t, err)
	defer client.Close()

	cfg := config.Load()
	first := store.NewWithClient(client, cfg, zerolog.Nop())
	second := store.NewWithClient(first.Client(), cfg, zerolog.Nop())

	assert.Same(t, client, first.Client())
	assert.Same(t, first.Client(), second.Client(), "second store must reuse the existing client")
}
