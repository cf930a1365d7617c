package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir(), "pln", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Migrate(nil))
	return s
}

func TestMentorRepositoryCRUD(t *testing.T) {
	repo := NewMentorRepository(newTestStore(t))
	ctx := context.Background()

	mentor := &models.Mentor{Name: "Budi Santoso", NIP: "1985010101", Division: "Distribusi"}
	require.NoError(t, repo.Create(ctx, mentor))
	assert.NotEmpty(t, mentor.ID)
	assert.False(t, mentor.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", fetched.Name)

	fetched.Position = "Manager"
	require.NoError(t, repo.Update(ctx, fetched))
	updated, err := repo.GetByID(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Manager", updated.Position)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	require.NoError(t, repo.Delete(ctx, mentor.ID))
	_, err = repo.GetByID(ctx, mentor.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestMentorRepositoryGetByNIP(t *testing.T) {
	repo := NewMentorRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Mentor{Name: "Siti", NIP: "200001"}))

	mentor, err := repo.GetByNIP(ctx, "200001")
	require.NoError(t, err)
	assert.Equal(t, "Siti", mentor.Name)

	_, err = repo.GetByNIP(ctx, "999999")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestMentorRepositoryExistsByNIP(t *testing.T) {
	repo := NewMentorRepository(newTestStore(t))
	ctx := context.Background()

	mentor := &models.Mentor{Name: "Agus", NIP: "300001"}
	require.NoError(t, repo.Create(ctx, mentor))

	exists, err := repo.ExistsByNIP(ctx, "300001", "")
	require.NoError(t, err)
	assert.True(t, exists)

	// Excluding the owner makes the NIP available again, the update path.
	exists, err = repo.ExistsByNIP(ctx, "300001", mentor.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByNIP(ctx, "300002", "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMentorRepositoryUpdateMissing(t *testing.T) {
	repo := NewMentorRepository(newTestStore(t))
	err := repo.Update(context.Background(), &models.Mentor{ID: "absent"})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestMentorRepositoryDeleteMissing(t *testing.T) {
	repo := NewMentorRepository(newTestStore(t))
	err := repo.Delete(context.Background(), "absent")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
