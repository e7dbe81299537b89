// Package signin реализует HTTP-обработчик входа пользователя.
// Токены и сессии не выдаются, ответ только подтверждает учетные данные.
package signin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/login-server/internal/http/request"
	"github.com/magabrotheeeer/login-server/internal/http/response"
	"github.com/magabrotheeeer/login-server/internal/lib/sl"
	"github.com/magabrotheeeer/login-server/internal/services/account"
)

// Сообщения ответов.
const (
	MsgSuccess      = "Signin successful!"
	MsgUnauthorized = "Invalid email or password."
	MsgInternal     = "Server error during signin."
)

// Request — учетные данные пользователя.
type Request struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"password123"`
}

// UserData — данные пользователя в ответе.
type UserData struct {
	ID    string `json:"id" example:"0b8f3c2e-6c1e-4b8a-9d57-2f4e1a7d9c10"`
	Name  string `json:"name" example:"Jane Doe"`
	Email string `json:"email" example:"jane@example.com"`
}

// SuccessResponse — тело ответа 200 для Swagger-документации.
type SuccessResponse struct {
	Status  string   `json:"status" example:"SUCCESS"`
	Message string   `json:"message" example:"Signin successful!"`
	Data    UserData `json:"data"`
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис учетных записей
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль. Токен не выдается.
// @Tags User
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} SuccessResponse "Учетные данные верны"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело или пустые поля"
// @Failure 401 {object} response.ErrorResponse "Неверный email или пароль"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/signin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.signin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(request.Message(err)))
		return
	}

	user, err := h.service.Signin(r.Context(), account.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})

	var vErr *account.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &vErr):
		log.Info("validation failed", slog.String("reason", vErr.Message))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(vErr.Message))
		return
	case errors.Is(err, account.ErrInvalidCredentials):
		log.Info("invalid credentials", sl.Email(req.Email))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(MsgUnauthorized))
		return
	default:
		log.Error("signin failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(MsgInternal))
		return
	}

	log.Info("signin success", slog.String("user_id", user.UUID))
	render.JSON(w, r, response.OKWithData(MsgSuccess, UserData{
		ID:    user.UUID,
		Name:  user.Name,
		Email: user.Email,
	}))
}
