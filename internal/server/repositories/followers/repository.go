package followers

import (
	"context"

	"github.com/feedline/feedline/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, followerID, followeeID int64) error
	Delete(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	ListFollowers(ctx context.Context, followeeID int64, limit int) ([]models.User, error)
}
