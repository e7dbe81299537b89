package signup

import (
	"context"

	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/services/account"
)

// Service описывает бизнес-логику регистрации.
type Service interface {
	Signup(ctx context.Context, in account.SignupInput) (*models.User, error)
}
