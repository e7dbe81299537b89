package postgresql

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/login-server/internal/migrations"
	"github.com/magabrotheeeer/login-server/internal/storage"
)

func setupTestDatabase(t *testing.T) *Storage {
	if testing.Short() || os.Getenv("SKIP_INTEGRATION_TESTS") != "" {
		t.Skip("skipping postgres integration test")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, migrationsPath))

	return s
}

func TestStorage_Integration(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()
	u := sampleUser()

	id, err := s.CreateUser(ctx, u)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := s.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, id, got.UUID)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.Equal(t, "1990-05-17", got.DateOfBirth.Format("2006-01-02"))

	_, err = s.CreateUser(ctx, u)
	assert.ErrorIs(t, err, storage.ErrEmailExists)

	_, err = s.GetUserByEmail(ctx, "JANE@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	require.NoError(t, s.Ping(ctx))
}

func TestStorage_Integration_ConcurrentInsert(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := sampleUser()
			u.Email = "race@example.com"
			u.Name = fmt.Sprintf("Racer %c", 'A'+i)
			if _, err := s.CreateUser(ctx, u); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}
