package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/mongo"
	"github.com/aretw0/jot/pkg/core"
)

// Requires a running server, e.g. JOT_TEST_MONGO_URI=mongodb://localhost:27017.
func connect(t *testing.T) *mongo.Store {
	t.Helper()
	uri := os.Getenv("JOT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("JOT_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := mongo.Connect(ctx, mongo.Config{
		URI:        uri,
		Database:   "jot_test",
		Collection: "slots_" + time.Now().Format("150405.000000"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := connect(t)

	_, ok, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "notes", "[]"))
	require.NoError(t, s.Set(ctx, "notes", `[{"id":1}]`))

	v, ok, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)
}

func TestStore_BacksRepository(t *testing.T) {
	ctx := context.Background()
	repo := core.NewRepository(connect(t))

	saved, err := repo.Save(ctx, core.Note{Title: "remote"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "remote", got.Title)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := mongo.Connect(ctx, mongo.Config{URI: "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200"})
	assert.Error(t, err)
}
