// Package account содержит бизнес-логику регистрации и входа пользователей:
// валидацию полей, хэширование пароля и работу с хранилищем.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/login-server/internal/lib/password"
	"github.com/magabrotheeeer/login-server/internal/lib/sl"
	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/storage"
)

var (
	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неизвестный email или неверный пароль.
	// Оба случая намеренно неразличимы.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// CreateUser сохраняет пользователя и возвращает выданный хранилищем ID.
	// При нарушении уникальности email возвращает storage.ErrEmailExists.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя или storage.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordHasher хэширует и проверяет пароли.
type PasswordHasher interface {
	GetHash(password string) (string, error)
	CompareHash(originalHash, externalPassword string) error
}

// EventPublisher публикует события о новых учётных записях.
type EventPublisher interface {
	AccountCreated(ctx context.Context, event models.AccountCreated) error
}

// Service реализует регистрацию и проверку учётных данных.
type Service struct {
	users    UserRepository
	hasher   PasswordHasher
	events   EventPublisher
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

// NewService создает Service. events может быть nil — тогда события не публикуются.
func NewService(users UserRepository, hasher PasswordHasher, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		events:   events,
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}
}

// Signup валидирует поля, проверяет уникальность email, хэширует пароль
// и сохраняет нового пользователя. Возвращённый пользователь не содержит хэша.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	const op = "account.Signup"

	in = in.trimmed()
	if err := validateSignup(s.validate, in); err != nil {
		return nil, err
	}
	dob, err := time.Parse(models.DateLayout, in.DateOfBirth)
	if err != nil {
		return nil, &ValidationError{Message: MsgInvalidDate}
	}

	existing, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.GetHash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		DateOfBirth:  dob,
		CreatedAt:    s.now().UTC(),
	}

	id, err := s.users.CreateUser(ctx, user)
	if errors.Is(err, storage.ErrEmailExists) {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrEmailTaken, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UUID = id
	user.PasswordHash = ""

	s.log.Info("user registered", slog.String("op", op), slog.String("user_id", id), sl.Email(user.Email))
	s.publishCreated(ctx, user)

	return &user, nil
}

// Signin проверяет пару email/пароль. Для неизвестного email и неверного
// пароля возвращается одна и та же ошибка ErrInvalidCredentials.
func (s *Service) Signin(ctx context.Context, in SigninInput) (*models.User, error) {
	const op = "account.Signin"

	in = in.trimmed()
	if err := validateSignin(s.validate, in); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, storage.ErrUserNotFound) {
		// неизвестный email проходит то же сравнение bcrypt, что и известный
		_ = s.hasher.CompareHash(s.fallbackHash(), in.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = s.hasher.CompareHash(user.PasswordHash, in.Password)
	if errors.Is(err, password.ErrMismatch) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := *user
	result.PasswordHash = ""
	return &result, nil
}

func (s *Service) publishCreated(ctx context.Context, user models.User) {
	if s.events == nil {
		return
	}
	event := models.AccountCreated{
		ID:        user.UUID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if err := s.events.AccountCreated(ctx, event); err != nil {
		s.log.Warn("failed to publish account created event",
			slog.String("user_id", user.UUID), sl.Err(err))
	}
}

// fallbackHash возвращает хэш-заглушку. Пока хэш не получен,
// каждый вызов пытается создать его заново.
func (s *Service) fallbackHash() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash != "" {
		return s.dummyHash
	}
	hash, err := s.hasher.GetHash("login-server-placeholder")
	if err != nil {
		s.log.Warn("failed to prepare placeholder hash", sl.Err(err))
		return ""
	}
	s.dummyHash = hash
	return s.dummyHash
}
