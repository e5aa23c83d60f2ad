// Package followers provides the PostgreSQL-backed repository for the
// directed follower graph.
package followers

import (
	"context"
	"errors"
	"fmt"

	"github.com/feedline/feedline/internal/common"
	"github.com/feedline/feedline/internal/dbx"
	"github.com/feedline/feedline/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements follower-graph storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts one directed edge. The composite primary key makes the store
// reject a second writer for the same pair; that loser sees
// ErrDuplicateFollower. A foreign-key violation means one of the ids never
// existed and surfaces as ErrUnknownUser.
func (r *PostgresRepository) Create(ctx context.Context, followerID, followeeID int64) error {
	query := `
		INSERT INTO followers (follower_id, followee_id, created_at)
		VALUES ($1, $2, now())
	`
	_, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case dbx.PgUniqueViolation:
				return common.ErrDuplicateFollower
			case dbx.PgForeignKeyViolation:
				return common.ErrUnknownUser
			}
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes one directed edge; deleting a pair that was never inserted
// yields ErrUnknownFollowerRelation.
func (r *PostgresRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	query := `
		DELETE FROM followers
		WHERE follower_id = $1 AND followee_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrUnknownFollowerRelation
	}
	return nil
}

// Exists reports whether followerID follows followeeID.
func (r *PostgresRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM followers
			WHERE follower_id = $1 AND followee_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, followerID, followeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListFollowers returns up to limit users following followeeID, ordered by
// follower id ascending so pages are stable.
func (r *PostgresRepository) ListFollowers(ctx context.Context, followeeID int64, limit int) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.pw_hash, u.created_at
		FROM users u
		JOIN followers f ON f.follower_id = u.id
		WHERE f.followee_id = $1
		ORDER BY u.id
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, followeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select followers: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PwHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
