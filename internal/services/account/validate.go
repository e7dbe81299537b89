package account

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/login-server/internal/models"
)

// Сообщения об ошибках валидации, которые уходят клиенту как есть.
const (
	MsgSignupRequired = "All fields are required: name, email, password, and date of birth."
	MsgInvalidName    = "Name can only contain letters, spaces, apostrophes, or hyphens."
	MsgInvalidEmail   = "Please enter a valid email address."
	MsgInvalidDate    = "Please enter date of birth as YYYY-MM-DD."
	MsgShortPassword  = "Password must be at least 8 characters long."
	MsgSigninRequired = "Email and password are required."
)

const (
	personNameTag   = "personname"
	emailAddressTag = "emailaddr"
	calendarDateTag = "isodate"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}'-]+$`)
	emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[a-zA-Z]{2,}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidationError — ошибка входных данных с сообщением для клиента.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SignupInput — поля запроса на регистрацию.
// Порядок полей задаёт порядок проверок: имя, email, дата рождения, пароль.
type SignupInput struct {
	Name        string `validate:"required,personname"`
	Email       string `validate:"required,emailaddr"`
	DateOfBirth string `validate:"required,isodate"`
	Password    string `validate:"required,min=8"`
}

// SigninInput — учётные данные для входа.
type SigninInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

func (in SignupInput) trimmed() SignupInput {
	return SignupInput{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		DateOfBirth: strings.TrimSpace(in.DateOfBirth),
		Password:    strings.TrimSpace(in.Password),
	}
}

func (in SigninInput) trimmed() SigninInput {
	return SigninInput{
		Email:    strings.TrimSpace(in.Email),
		Password: strings.TrimSpace(in.Password),
	}
}

var fieldMessages = map[string]string{
	"Name":        MsgInvalidName,
	"Email":       MsgInvalidEmail,
	"DateOfBirth": MsgInvalidDate,
	"Password":    MsgShortPassword,
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Ошибки регистрации кастомных тегов возможны только при пустом имени тега.
	_ = v.RegisterValidation(personNameTag, func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(emailAddressTag, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(calendarDateTag, func(fl validator.FieldLevel) bool {
		return isCalendarDate(fl.Field().String())
	})
	return v
}

func isCalendarDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

// validateSignup проверяет поля регистрации и возвращает первую ошибку
// в фиксированном порядке: обязательные поля, затем форматы по порядку полей.
func validateSignup(v *validator.Validate, in SignupInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	for _, fe := range errs {
		if fe.Tag() == "required" {
			return &ValidationError{Message: MsgSignupRequired}
		}
	}

	if msg, ok := fieldMessages[errs[0].StructField()]; ok {
		return &ValidationError{Message: msg}
	}
	return err
}

func validateSignin(v *validator.Validate, in SigninInput) error {
	if err := v.Struct(in); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return &ValidationError{Message: MsgSigninRequired}
		}
		return err
	}
	return nil
}
