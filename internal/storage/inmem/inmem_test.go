package inmem

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/storage"
)

func testUser(email string) models.User {
	return models.User{
		Name:         "Jane Doe",
		Email:        email,
		PasswordHash: "hash",
		DateOfBirth:  time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		CreatedAt:    time.Now().UTC(),
	}
}

func TestStorage_CreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateUser(ctx, testUser("jane@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := s.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.UUID)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestStorage_DuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, testUser("jane@example.com"))
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, testUser("jane@example.com"))
	assert.ErrorIs(t, err, storage.ErrEmailExists)
}

func TestStorage_EmailIsCaseSensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, testUser("jane@example.com"))
	require.NoError(t, err)

	_, err = s.GetUserByEmail(ctx, "Jane@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_NotFound(t *testing.T) {
	_, err := New().GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_ReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, testUser("jane@example.com"))
	require.NoError(t, err)

	got, err := s.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	got.Name = "changed"

	again, err := s.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", again.Name)
}

func TestStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().CreateUser(ctx, testUser("jane@example.com"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage_ConcurrentSignupSameEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := testUser("race@example.com")
			u.Name = fmt.Sprintf("user %d", i)
			if _, err := s.CreateUser(ctx, u); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}
