// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков.
package response

const (
	// StatusSuccess — значение статуса для успешного ответа.
	StatusSuccess = "SUCCESS"
	// StatusFailed — значение статуса для ответа с ошибкой.
	StatusFailed = "FAILED"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("SUCCESS" или "FAILED").
// Поле Message — человеко‑читаемое сообщение.
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status  string `json:"status" example:"FAILED"`
	Message string `json:"message" example:"Invalid request body."`
}

// OK возвращает успешный Response без данных.
func OK(msg string) Response {
	return Response{
		Status:  StatusSuccess,
		Message: msg,
	}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(msg string, data any) Response {
	return Response{
		Status:  StatusSuccess,
		Message: msg,
		Data:    data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status:  StatusFailed,
		Message: msg,
	}
}
