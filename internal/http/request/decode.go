// Package request декодирует JSON-тела входящих запросов.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Сообщения клиенту для ошибок декодирования.
const (
	MsgMissingBody = "Missing request body."
	MsgInvalidBody = "Invalid request body."
)

var (
	// ErrEmptyBody — тело запроса отсутствует или состоит из пробелов.
	ErrEmptyBody = errors.New("request body is empty")
	// ErrInvalidBody — тело не является JSON-объектом нужной формы.
	ErrInvalidBody = errors.New("request body is invalid")
)

// DecodeJSON читает JSON-объект из тела запроса в dst.
func DecodeJSON(r *http.Request, dst any) error {
	const op = "request.DecodeJSON"

	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%s: %w", op, ErrEmptyBody)
	}

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%s: %w", op, ErrEmptyBody)
	case err != nil:
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidBody, err)
	}

	// после объекта допускаются только пробелы
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w: trailing data after JSON value", op, ErrInvalidBody)
	}
	return nil
}

// Message возвращает текст ответа для ошибки DecodeJSON.
func Message(err error) string {
	if errors.Is(err, ErrEmptyBody) {
		return MsgMissingBody
	}
	return MsgInvalidBody
}
