package repository

import (
	"context"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ListActive(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
