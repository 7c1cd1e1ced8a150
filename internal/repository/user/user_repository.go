package user

import (
	"context"

	"github.com/SarprasYP/sispras/internal/repository"
	custom_error "github.com/SarprasYP/sispras/pkg/errors"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var _ repository.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *UserRepository {
	return &UserRepository{repository: r}
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := r.repository.WithDeadline(ctx)
	defer cancel()

	var user models.User
	found, err := r.repository.GoquDBWrapper.
		From("users").
		Select("id", "username", "fullname", "password_hash", "role").
		Where(goqu.Ex{"username": username}).
		Executor().
		ScanStructContext(ctx, &user)
	if err != nil {
		return nil, custom_error.WrapDBError("unable to select user", err)
	}
	if !found {
		return nil, custom_error.NotFound("user %s not found", username)
	}

	return &user, nil
}
