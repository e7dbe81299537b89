// Package signup реализует HTTP-обработчик регистрации новых пользователей.
//
// Обработчик декодирует JSON, передаёт поля в сервис учётных записей
// и переводит его ошибки в коды ответа 400, 409 и 500.
package signup

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/login-server/internal/http/request"
	"github.com/magabrotheeeer/login-server/internal/http/response"
	"github.com/magabrotheeeer/login-server/internal/lib/sl"
	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/services/account"
)

// Сообщения ответов.
const (
	MsgSuccess  = "Signup successful!"
	MsgConflict = "An account with this email already exists."
	MsgInternal = "Server error during signup."
)

// Request — входные данные для регистрации.
type Request struct {
	Name        string `json:"name" example:"Jane Doe"`
	Email       string `json:"email" example:"jane@example.com"`
	Password    string `json:"password" example:"password123"`
	DateOfBirth string `json:"dateOfBirth" example:"1990-05-17"`
}

// UserData — данные созданного пользователя в ответе.
type UserData struct {
	ID          string `json:"id" example:"0b8f3c2e-6c1e-4b8a-9d57-2f4e1a7d9c10"`
	Name        string `json:"name" example:"Jane Doe"`
	Email       string `json:"email" example:"jane@example.com"`
	DateOfBirth string `json:"dateOfBirth" example:"1990-05-17"`
}

// SuccessResponse — тело ответа 201 для Swagger-документации.
type SuccessResponse struct {
	Status  string   `json:"status" example:"SUCCESS"`
	Message string   `json:"message" example:"Signup successful!"`
	Data    UserData `json:"data"`
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Регистрация нового пользователя
// @Description Создает учетную запись по имени, email, паролю и дате рождения
// @Tags User
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} SuccessResponse "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело или ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при регистрации"
// @Router /user/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.signup"

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

	user, err := h.service.Signup(r.Context(), account.SignupInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: req.DateOfBirth,
	})

	var vErr *account.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &vErr):
		log.Info("validation failed", slog.String("reason", vErr.Message))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(vErr.Message))
		return
	case errors.Is(err, account.ErrEmailTaken):
		log.Info("email already registered", sl.Email(req.Email))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error(MsgConflict))
		return
	default:
		log.Error("signup failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(MsgInternal))
		return
	}

	log.Info("signup success", slog.String("user_id", user.UUID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(MsgSuccess, UserData{
		ID:          user.UUID,
		Name:        user.Name,
		Email:       user.Email,
		DateOfBirth: user.DateOfBirth.Format(models.DateLayout),
	}))
}
