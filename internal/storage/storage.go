// Package storage объявляет общие ошибки хранилищ пользователей.
// Конкретные реализации лежат в подпакетах postgresql, mongodb, redisstore и inmem.
package storage

import "errors"

var (
	// ErrUserNotFound возвращается, если пользователь с указанным email отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists возвращается при нарушении уникальности email.
	ErrEmailExists = errors.New("email already exists")
)
