// Package redisstore реализует хранилище пользователей в Redis.
//
// Пользователь хранится в хэше login:user:<id>, email резервируется
// ключом login:user:email:<email> через SETNX после записи хэша.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/login-server/internal/config"
	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/storage"
)

const keyPrefix = "login:user:"

// Storage работает поверх клиента go-redis.
type Storage struct {
	Db *redis.Client
}

// New подключается к Redis и проверяет соединение.
func New(ctx context.Context, cfg config.RedisConnection) (*Storage, error) {
	const op = "storage.redisstore.New"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{Db: db}, nil
}

func emailKey(email string) string { return keyPrefix + "email:" + email }
func userKey(id string) string     { return keyPrefix + id }

// CreateUser сначала пишет хэш пользователя под новым ID, затем резервирует
// email через SETNX. Индекс email появляется только когда хэш уже записан.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.redisstore.CreateUser"

	id := uuid.New().String()
	err := s.Db.HSet(ctx, userKey(id), map[string]any{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"date_of_birth": user.DateOfBirth.UTC().Format(models.DateLayout),
		"created_at":    user.CreatedAt.UTC().Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.Db.SetNX(ctx, emailKey(user.Email), id, 0).Result()
	if err != nil {
		// SETNX мог примениться на сервере, поэтому хэш не удаляется
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		// хэш без индекса недостижим, ошибка удаления не критична
		_ = s.Db.Del(ctx, userKey(id)).Err()
		return "", fmt.Errorf("%s: %w", op, storage.ErrEmailExists)
	}
	return id, nil
}

// GetUserByEmail находит ID по индексу email и читает хэш пользователя.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.redisstore.GetUserByEmail"

	id, err := s.Db.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fields, err := s.Db.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// email уже зарезервирован, но хэш ещё не записан
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	dob, err := time.Parse(models.DateLayout, fields["date_of_birth"])
	if err != nil {
		return nil, fmt.Errorf("%s: date_of_birth: %w", op, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("%s: created_at: %w", op, err)
	}

	return &models.User{
		UUID:         id,
		Name:         fields["name"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		DateOfBirth:  dob,
		CreatedAt:    createdAt,
	}, nil
}

// Ping проверяет соединение с Redis.
func (s *Storage) Ping(ctx context.Context) error {
	return s.Db.Ping(ctx).Err()
}

// Close закрывает клиента.
func (s *Storage) Close() error {
	return s.Db.Close()
}
