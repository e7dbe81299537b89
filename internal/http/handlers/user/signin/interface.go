package signin

import (
	"context"

	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/services/account"
)

// Service описывает бизнес-логику проверки учетных данных.
type Service interface {
	Signin(ctx context.Context, in account.SigninInput) (*models.User, error)
}
