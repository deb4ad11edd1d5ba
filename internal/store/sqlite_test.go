package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/portfolio-backend/internal/contact"
	"github.com/DoyleJ11/portfolio-backend/internal/resume"
)

func openTest(t *testing.T) Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_MessagesNewestFirst(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveMessage(ctx, contact.Message{
			ID: id, Name: "n" + id, Email: id + "@example.com", Body: "hello " + id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := s.ListMessages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	all, err := s.ListMessages(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLite_DuplicateMessage(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	m := contact.Message{ID: "x", Name: "n", Email: "e@example.com", Body: "hello there", CreatedAt: time.Now()}

	require.NoError(t, s.SaveMessage(ctx, m))
	assert.ErrorIs(t, s.SaveMessage(ctx, m), ErrDuplicate)
}

func TestSQLite_SeedIsIdempotent(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	// Open already seeded once.
	require.NoError(t, s.SeedResumeRoles(ctx, resume.Roles()))

	roles, err := s.ResumeRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, resume.Roles(), roles)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mongo", "")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
