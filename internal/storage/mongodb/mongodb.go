// Package mongodb реализует хранилище пользователей в MongoDB.
// Имена полей документа совпадают со схемой коллекции users: name, email,
// password, dateOfBirth.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/storage"
)

// Storage хранит пользователей в одной коллекции с уникальным индексом по email.
type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
}

type userDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	DateOfBirth time.Time          `bson:"dateOfBirth"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// New подключается к MongoDB, проверяет соединение и создаёт уникальный индекс по email.
func New(ctx context.Context, uri, database, collection string) (*Storage, error) {
	const op = "storage.mongodb.New"

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{
		client: client,
		users:  client.Database(database).Collection(collection),
	}
	if err = s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

// CreateUser вставляет документ пользователя и возвращает hex-представление ObjectID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.mongodb.CreateUser"

	res, err := s.users.InsertOne(ctx, toDocument(user))
	if mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrEmailExists)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%s: unexpected inserted id type %T", op, res.InsertedID)
	}
	return id.Hex(), nil
}

// GetUserByEmail находит пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.mongodb.GetUserByEmail"

	var doc userDocument
	err := s.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u := fromDocument(doc)
	return &u, nil
}

// Ping проверяет доступность primary.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close отключает клиента.
func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDocument(u models.User) userDocument {
	return userDocument{
		Name:        u.Name,
		Email:       u.Email,
		Password:    u.PasswordHash,
		DateOfBirth: u.DateOfBirth.UTC(),
		CreatedAt:   u.CreatedAt.UTC(),
	}
}

func fromDocument(d userDocument) models.User {
	return models.User{
		UUID:         d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		DateOfBirth:  d.DateOfBirth.UTC(),
		CreatedAt:    d.CreatedAt.UTC(),
	}
}
