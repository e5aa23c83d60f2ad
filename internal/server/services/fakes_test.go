package services

import (
	"context"
	"database/sql"

	"github.com/feedline/feedline/internal/common"
	"github.com/feedline/feedline/internal/dbx"
	"github.com/feedline/feedline/internal/server/models"
	followersrepo "github.com/feedline/feedline/internal/server/repositories/followers"
	messagesrepo "github.com/feedline/feedline/internal/server/repositories/messages"
	usersrepo "github.com/feedline/feedline/internal/server/repositories/users"
)

// --- in-memory fakes implementing the repository interfaces ---

type fakeUsersRepo struct {
	byUsername map[string]*models.User
	byID       map[int64]*models.User

	createErr error
	getErr    error

	created []*models.User
	nextID  int64
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{
		byUsername: map[string]*models.User{},
		byID:       map[int64]*models.User{},
		nextID:     1,
	}
	for _, u := range users {
		f.byUsername[u.Username] = u
		f.byID[u.ID] = u
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = f.nextID
	f.nextID++
	f.created = append(f.created, u)
	f.byUsername[u.Username] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type pair struct{ follower, followee int64 }

type fakeFollowersRepo struct {
	createErr error
	deleteErr error
	existsOut bool
	existsErr error
	listOut   []models.User
	listErr   error

	created     []pair
	deleted     []pair
	existsCalls []pair
	lastLimit   int
}

func (f *fakeFollowersRepo) Create(ctx context.Context, followerID, followeeID int64) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, pair{followerID, followeeID})
	return nil
}

func (f *fakeFollowersRepo) Delete(ctx context.Context, followerID, followeeID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, pair{followerID, followeeID})
	return nil
}

func (f *fakeFollowersRepo) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	f.existsCalls = append(f.existsCalls, pair{followerID, followeeID})
	return f.existsOut, f.existsErr
}

func (f *fakeFollowersRepo) ListFollowers(ctx context.Context, followeeID int64, limit int) ([]models.User, error) {
	f.lastLimit = limit
	return f.listOut, f.listErr
}

type fakeMessagesRepo struct {
	createErr  error
	latestOut  []*models.Message
	byAuthor   []*models.Message
	byFollowed []*models.Message
	queryErr   error

	created      []*models.Message
	lastAuthorID int64
	lastViewerID int64
	lastLimit    int
	nextID       int64
}

func (f *fakeMessagesRepo) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	m.ID = f.nextID
	f.created = append(f.created, m)
	return m, nil
}

func (f *fakeMessagesRepo) Latest(ctx context.Context, limit int) ([]*models.Message, error) {
	f.lastLimit = limit
	return f.latestOut, f.queryErr
}

func (f *fakeMessagesRepo) ByAuthor(ctx context.Context, authorID int64, limit int) ([]*models.Message, error) {
	f.lastAuthorID = authorID
	f.lastLimit = limit
	return f.byAuthor, f.queryErr
}

func (f *fakeMessagesRepo) ByFollowed(ctx context.Context, followerID int64, limit int) ([]*models.Message, error) {
	f.lastViewerID = followerID
	f.lastLimit = limit
	return f.byFollowed, f.queryErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFollowersRepo
	m *fakeMessagesRepo
}

func (rm *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (rm *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return rm.u }
func (rm *fakeRepoManager) Followers(db dbx.DBTX) followersrepo.Repository { return rm.f }
func (rm *fakeRepoManager) Messages(db dbx.DBTX) messagesrepo.Repository { return rm.m }
