// Package services contains server-side business logic. This file implements
// Directory, which owns user identity, registration, and the directed
// follower graph.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/feedline/feedline/internal/common"
	"github.com/feedline/feedline/internal/server/auth"
	"github.com/feedline/feedline/internal/server/config"
	"github.com/feedline/feedline/internal/server/models"
	"github.com/feedline/feedline/internal/server/repositories/repomanager"
)

// Directory provides identity-related operations:
// - CreateUser: register accounts with hashed credentials
// - GetUserByUsername: identity lookup
// - AddFollower / RemoveFollower / IsFollowing / GetFollowers: follower graph
//
// It holds no state between calls; every operation reads and writes through
// the store, so each call is consistent with the latest committed state.
type Directory struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bcryptCost  int
}

// NewDirectory constructs a Directory using repositories and server config.
func NewDirectory(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *Directory {
	return &Directory{
		db:          db,
		repomanager: m,
		bcryptCost:  cfg.BcryptCost,
	}
}

// CreateUser hashes the plaintext credential and persists a new user. The
// store's unique constraints decide duplicates, so two concurrent
// registrations of the same username or email cannot both succeed; the loser
// sees ErrUsernameTaken or ErrEmailTaken.
func (s *Directory) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{Username: username, Email: email, PwHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns the user with the given username, or
// ErrUnknownUser if no such user exists.
func (s *Directory) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.resolveUsername(ctx, username)
}

// IsFollowing reports whether followerID follows the named user. A followee
// that does not exist reads as "not following" rather than an identity error:
// the question is about the relation, not identity validity.
func (s *Directory) IsFollowing(ctx context.Context, followerID int64, followeeUsername string) (bool, error) {
	followee, err := s.resolveUsername(ctx, followeeUsername)
	if err != nil {
		if errors.Is(err, common.ErrUnknownUser) {
			return false, nil
		}
		return false, err
	}

	repo := s.repomanager.Followers(s.db)
	return repo.Exists(ctx, followerID, followee.ID)
}

// GetFollowers returns up to limit users following the named user, ordered by
// follower id ascending. Fails with ErrUnknownUser if the name does not
// resolve.
func (s *Directory) GetFollowers(ctx context.Context, username string, limit int) ([]models.User, error) {
	user, err := s.resolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Followers(s.db)
	return repo.ListFollowers(ctx, user.ID, limit)
}

// AddFollower makes the first named user follow the second. Either name
// failing to resolve yields ErrUnknownUser; an existing relation yields
// ErrDuplicateFollower.
func (s *Directory) AddFollower(ctx context.Context, followerUsername, followeeUsername string) error {
	follower, err := s.resolveUsername(ctx, followerUsername)
	if err != nil {
		return err
	}
	followee, err := s.resolveUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	return s.addFollower(ctx, follower.ID, followee.ID)
}

// AddFollowerByID is AddFollower with the follower given as a resolved id.
func (s *Directory) AddFollowerByID(ctx context.Context, followerID int64, followeeUsername string) error {
	follower, err := s.resolveID(ctx, followerID)
	if err != nil {
		return err
	}
	followee, err := s.resolveUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	return s.addFollower(ctx, follower.ID, followee.ID)
}

// RemoveFollower removes the relation created by AddFollower. A pair without
// a relation yields ErrUnknownFollowerRelation.
func (s *Directory) RemoveFollower(ctx context.Context, followerUsername, followeeUsername string) error {
	follower, err := s.resolveUsername(ctx, followerUsername)
	if err != nil {
		return err
	}
	followee, err := s.resolveUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	return s.removeFollower(ctx, follower.ID, followee.ID)
}

// RemoveFollowerByID is RemoveFollower with the follower given as a resolved id.
func (s *Directory) RemoveFollowerByID(ctx context.Context, followerID int64, followeeUsername string) error {
	follower, err := s.resolveID(ctx, followerID)
	if err != nil {
		return err
	}
	followee, err := s.resolveUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	return s.removeFollower(ctx, follower.ID, followee.ID)
}

// --- helpers below ---

// addFollower and removeFollower take resolved ids; the username/id entry
// points above are thin resolution wrappers around them.

func (s *Directory) addFollower(ctx context.Context, followerID, followeeID int64) error {
	repo := s.repomanager.Followers(s.db)
	return repo.Create(ctx, followerID, followeeID)
}

func (s *Directory) removeFollower(ctx context.Context, followerID, followeeID int64) error {
	repo := s.repomanager.Followers(s.db)
	return repo.Delete(ctx, followerID, followeeID)
}

func (s *Directory) resolveUsername(ctx context.Context, username string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownUser
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func (s *Directory) resolveID(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownUser
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}
