package messages

import (
	"context"

	"github.com/feedline/feedline/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, message *models.Message) (*models.Message, error)
	Latest(ctx context.Context, limit int) ([]*models.Message, error)
	ByAuthor(ctx context.Context, authorID int64, limit int) ([]*models.Message, error)
	ByFollowed(ctx context.Context, followerID int64, limit int) ([]*models.Message, error)
}
