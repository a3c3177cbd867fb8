package dedupe_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxtsh/ai-for-bharat/internal/dedupe"
)

// Requires a local Redis instance; uses DB 15 to stay clear of real data.
func TestStore_MarkAndForget(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	store, err := dedupe.NewStore("localhost:6379", "", 15, time.Minute)
	if err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	fingerprint := uuid.NewString()
	defer store.Forget(ctx, fingerprint)

	fresh, err := store.MarkIfNew(ctx, fingerprint)
	require.NoError(t, err)
	assert.True(t, fresh, "first sighting should be fresh")

	fresh, err = store.MarkIfNew(ctx, fingerprint)
	require.NoError(t, err)
	assert.False(t, fresh, "second sighting should be a duplicate")

	require.NoError(t, store.Forget(ctx, fingerprint))

	fresh, err = store.MarkIfNew(ctx, fingerprint)
	require.NoError(t, err)
	assert.True(t, fresh, "forgotten fingerprint should be fresh again")
}

func TestStore_Ping(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	store, err := dedupe.NewStore("localhost:6379", "", 15, time.Minute)
	if err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}
