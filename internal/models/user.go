// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и дату рождения.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// DateLayout — формат, в котором дата рождения принимается и отдаётся клиенту.
const DateLayout = "2006-01-02"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    // Уникальный идентификатор, выдаётся хранилищем
	Name         string    // Имя пользователя
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // bcrypt-хэш пароля, наружу не отдаётся
	DateOfBirth  time.Time // Дата рождения (без времени, UTC)
	CreatedAt    time.Time // Момент регистрации
}

// AccountCreated — событие о регистрации нового пользователя.
// Публикуется после успешной записи в хранилище.
type AccountCreated struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
