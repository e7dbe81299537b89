// Package inmem реализует хранилище пользователей в памяти процесса.
// Используется драйвером "memory" и в тестах.
package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/storage"
)

// Storage хранит пользователей в map, индексированных по ID и email.
type Storage struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

// CreateUser сохраняет пользователя, если email ещё не занят.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.inmem.CreateUser"
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return "", fmt.Errorf("%s: %w", op, storage.ErrEmailExists)
	}

	user.UUID = uuid.New().String()
	s.byID[user.UUID] = &user
	s.byEmail[user.Email] = user.UUID
	return user.UUID, nil
}

// GetUserByEmail возвращает копию сохранённого пользователя.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.inmem.GetUserByEmail"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	u := *s.byID[id]
	return &u, nil
}

// Ping всегда успешен.
func (s *Storage) Ping(context.Context) error { return nil }

// Close ничего не освобождает.
func (s *Storage) Close() error { return nil }
