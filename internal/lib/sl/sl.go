// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога:
// ошибок и персональных данных, которые нельзя писать в лог целиком.
package sl

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Email возвращает slog.Attr с замаскированным адресом: первая буква
// локальной части и домен остаются, остальное заменяется звёздочками.
func Email(email string) slog.Attr {
	return slog.String("email", maskEmail(email))
}

func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	first, size := utf8.DecodeRuneInString(email)
	if first == utf8.RuneError && size <= 1 {
		return "***" + email[at:]
	}
	return string(first) + "***" + email[at:]
}
