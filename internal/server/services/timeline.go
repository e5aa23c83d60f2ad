// This file implements Timeline, which owns message creation and the three
// feed queries (global, per-user, followed). Feeds exclude flagged messages,
// sort by publish time descending, and are capped at the caller's limit.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/feedline/feedline/internal/common"
	"github.com/feedline/feedline/internal/server/models"
	"github.com/feedline/feedline/internal/server/repositories/repomanager"
)

// Timeline aggregates messages into feeds. It resolves usernames through
// Directory and holds no state between calls.
type Timeline struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	directory   *Directory

	// now supplies publish timestamps; a seam for tests.
	now func() time.Time
}

// NewTimeline constructs a Timeline backed by the same store as directory.
func NewTimeline(db *sql.DB, m repomanager.RepositoryManager, directory *Directory) *Timeline {
	return &Timeline{
		db:          db,
		repomanager: m,
		directory:   directory,
		now:         time.Now,
	}
}

// GetGlobalFeed returns the newest non-flagged messages across all users.
func (s *Timeline) GetGlobalFeed(ctx context.Context, limit int) ([]*models.Message, error) {
	repo := s.repomanager.Messages(s.db)
	return repo.Latest(ctx, limit)
}

// GetUserFeed returns the newest non-flagged messages authored by user.
func (s *Timeline) GetUserFeed(ctx context.Context, user *models.User, limit int) ([]*models.Message, error) {
	repo := s.repomanager.Messages(s.db)
	return repo.ByAuthor(ctx, user.ID, limit)
}

// GetFollowedFeed returns the newest non-flagged messages authored by users
// the named viewer follows. A viewer that does not resolve sees an empty
// feed rather than an error: a caller probing a nonexistent viewer's feed
// has nothing to show, not a failure.
func (s *Timeline) GetFollowedFeed(ctx context.Context, viewerUsername string, limit int) ([]*models.Message, error) {
	viewer, err := s.directory.GetUserByUsername(ctx, viewerUsername)
	if err != nil {
		if errors.Is(err, common.ErrUnknownUser) {
			return nil, nil
		}
		return nil, err
	}
	return s.GetFollowedFeedByID(ctx, viewer.ID, limit)
}

// GetFollowedFeedByID is GetFollowedFeed with the viewer given as an id.
// An unknown id follows nobody and naturally yields an empty feed.
func (s *Timeline) GetFollowedFeedByID(ctx context.Context, viewerID int64, limit int) ([]*models.Message, error) {
	repo := s.repomanager.Messages(s.db)
	return repo.ByFollowed(ctx, viewerID, limit)
}

// CreateMessage posts content as the named author. The name failing to
// resolve yields ErrUnknownUser.
func (s *Timeline) CreateMessage(ctx context.Context, content, authorUsername string) (*models.Message, error) {
	author, err := s.directory.GetUserByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}
	return s.CreateMessageByID(ctx, content, author.ID)
}

// CreateMessageByID posts content as the given author id. Content is trimmed
// of surrounding whitespace before storage; the message is stored unflagged
// with the creation instant as its publish time.
func (s *Timeline) CreateMessageByID(ctx context.Context, content string, authorID int64) (*models.Message, error) {
	msg := &models.Message{
		AuthorID: authorID,
		Text:     strings.TrimSpace(content),
		PubDate:  s.now(),
		Flagged:  false,
	}

	repo := s.repomanager.Messages(s.db)
	return repo.Create(ctx, msg)
}
