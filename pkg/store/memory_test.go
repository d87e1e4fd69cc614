package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCreateAssignsSequentialIDs(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	first, err := s.Create(ctx, "A", "a@example.com", "h1")
	require.NoError(t, err)
	second, err := s.Create(ctx, "B", "b@example.com", "h2")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestInMemoryFindAndSave(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "A", "a@example.com", "h1")
	require.NoError(t, err)

	u, err := s.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name)

	u.Email = "new@example.com"
	require.NoError(t, s.Save(ctx, u))

	u, err = s.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
}

func TestInMemoryFindMissing(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.Find(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemorySaveMissing(t *testing.T) {
	s := NewInMemoryStore()
	err := s.Save(context.Background(), User{ID: 42, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryDeleteReportsExistence(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, "A", "a@example.com", "h1")
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestInMemoryPaginate(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := s.Create(ctx, "U", "u@example.com", "h")
		require.NoError(t, err)
	}

	pg, err := s.Paginate(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, pg.CurrentPage)
	assert.Equal(t, 3, pg.PerPage)
	assert.Equal(t, 7, pg.Total)
	assert.Equal(t, 3, pg.LastPage)
	require.Len(t, pg.Items, 3)
	assert.Equal(t, int64(4), pg.Items[0].ID)

	// Past the end: empty items, metadata intact.
	pg, err = s.Paginate(ctx, 9, 3)
	require.NoError(t, err)
	assert.Empty(t, pg.Items)
	assert.Equal(t, 3, pg.LastPage)
}

func TestInMemoryPaginateEmpty(t *testing.T) {
	s := NewInMemoryStore()
	pg, err := s.Paginate(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, pg.Items)
	assert.Equal(t, 1, pg.LastPage)
	assert.Equal(t, 0, pg.Total)
}

func TestInMemoryListRecentNewestFirst(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.Create(ctx, "U", "u@example.com", "h")
		require.NoError(t, err)
	}

	recent, err := s.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, int64(5), recent[0].ID)
	assert.Equal(t, int64(4), recent[1].ID)
	assert.Equal(t, int64(3), recent[2].ID)

	// Asking for more than exists returns everything.
	recent, err = s.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	raw, err := json.Marshal(User{ID: 1, Name: "A", Email: "a@example.com", PasswordHash: "bcrypt-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "bcrypt-hash")
	assert.NotContains(t, string(raw), "password")
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 1, lastPage(0, 10))
	assert.Equal(t, 1, lastPage(10, 10))
	assert.Equal(t, 2, lastPage(11, 10))
	assert.Equal(t, 3, lastPage(25, 10))
	assert.Equal(t, 1, lastPage(5, 0))
}
