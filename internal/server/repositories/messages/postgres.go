// Package messages provides the PostgreSQL-backed repository for posted
// messages and the three feed queries. Every feed query hides flagged rows,
// orders by publish time descending, and truncates to the caller's limit.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/feedline/feedline/internal/common"
	"github.com/feedline/feedline/internal/dbx"
	"github.com/feedline/feedline/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements message storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a message row. A foreign-key violation on author_id means
// the author id never existed and surfaces as ErrUnknownUser.
func (r *PostgresRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (author_id, text, pub_date, flagged)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		message.AuthorID, message.Text, message.PubDate, message.Flagged).Scan(&message.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == dbx.PgForeignKeyViolation {
			return nil, common.ErrUnknownUser
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return message, nil
}

// Latest returns the newest non-flagged messages across all authors.
func (r *PostgresRepository) Latest(ctx context.Context, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, author_id, text, pub_date, flagged FROM messages
		WHERE NOT flagged
		ORDER BY pub_date DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	return scanMessages(rows)
}

// ByAuthor returns the newest non-flagged messages of one author.
func (r *PostgresRepository) ByAuthor(ctx context.Context, authorID int64, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, author_id, text, pub_date, flagged FROM messages
		WHERE NOT flagged AND author_id = $1
		ORDER BY pub_date DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	return scanMessages(rows)
}

// ByFollowed returns the newest non-flagged messages whose author is among
// the users followerID follows.
func (r *PostgresRepository) ByFollowed(ctx context.Context, followerID int64, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, author_id, text, pub_date, flagged FROM messages
		WHERE NOT flagged AND author_id IN (
			SELECT followee_id FROM followers WHERE follower_id = $1
		)
		ORDER BY pub_date DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, followerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]*models.Message, error) {
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.AuthorID, &m.Text, &m.PubDate, &m.Flagged); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
