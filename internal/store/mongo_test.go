package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/appointment-intake/internal/models"
)

// setupMongo connects to MONGO_URI and returns a throwaway database.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database(fmt.Sprintf("intake_test_%s", uuid.NewString()[:8]))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestMongoAppointmentLifecycle(t *testing.T) {
	db := setupMongo(t)
	s := NewMongoAppointmentStore(db)
	ctx := context.Background()

	first, err := s.Create(ctx, sampleAppointment("a"))
	require.NoError(t, err)
	second, err := s.Create(ctx, sampleAppointment("b"))
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.Equal(t, models.StatusPending, got.Status)

	approved := "approved"
	updated, err := s.Update(ctx, first.ID, models.AppointmentUpdate{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, "approved", updated.Status)
	assert.Equal(t, "a", updated.Name)

	_, err = s.Update(ctx, 9999, models.AppointmentUpdate{Status: &approved})
	assert.ErrorIs(t, err, models.ErrNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	_, err = s.Delete(ctx, second.ID)
	require.NoError(t, err)
	_, err = s.Get(ctx, second.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	third, err := s.Create(ctx, sampleAppointment("c"))
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID)
}

func TestMongoUserDuplicate(t *testing.T) {
	db := setupMongo(t)
	s := NewMongoUserStore(db)
	ctx := context.Background()
	require.NoError(t, s.EnsureIndexes(ctx))

	u, err := s.Create(ctx, "admin", "hash", true)
	require.NoError(t, err)

	_, err = s.Create(ctx, "admin", "hash", false)
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)

	got, err := s.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
}
