package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
)

type HashtagRepository interface {
	GetByName(ctx context.Context, name string) (*models.Hashtag, bool, error)
	Popular(ctx context.Context, limit int) ([]*models.Hashtag, error)
}

type hashtagRepository struct {
	db *sql.DB
}

func NewHashtagRepository(db *sql.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// ensure registers a use of name and returns its id. The upsert is a single
// statement so concurrent callers referencing the same tag never race.
func (r *hashtagRepository) ensure(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	query := `
		INSERT INTO hashtags (name, usage_count, created_at)
		VALUES ($1, 1, $2)
		ON CONFLICT (name)
		DO UPDATE SET usage_count = hashtags.usage_count + 1
		RETURNING id
	`

	var id int64
	err := conn(r.db, tx).QueryRowContext(ctx, query, name, time.Now().UTC()).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, fmt.Errorf("ensure hashtag %q: %w", name, err)
	}
	return id, nil
}

// release gives back one use of every hashtag currently linked to postID.
func (r *hashtagRepository) release(ctx context.Context, tx *sql.Tx, postID int64) error {
	query := `
		UPDATE hashtags
		SET usage_count = usage_count - 1
		WHERE usage_count > 0
			AND id IN (SELECT hashtag_id FROM post_hashtags WHERE post_id = $1)
	`
	if _, err := conn(r.db, tx).ExecContext(ctx, query, postID); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// replaceTags swaps the full set of associations of postID for names.
// It must run inside the caller's unit of work.
func (r *hashtagRepository) replaceTags(ctx context.Context, tx *sql.Tx, postID int64, names []string) error {
	if err := r.release(ctx, tx, postID); err != nil {
		return err
	}

	q := conn(r.db, tx)
	if _, err := q.ExecContext(ctx, `DELETE FROM post_hashtags WHERE post_id = $1`, postID); err != nil {
		slog.Info(err.Error())
		return err
	}

	for _, name := range names {
		hashtagID, err := r.ensure(ctx, tx, name)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `INSERT INTO post_hashtags (post_id, hashtag_id) VALUES ($1, $2)`, postID, hashtagID)
		if err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("link hashtag %q: %w", name, err)
		}
	}
	return nil
}

// namesByPostIDs loads the hashtag names of each post, sorted by name.
func (r *hashtagRepository) namesByPostIDs(ctx context.Context, tx *sql.Tx, postIDs []int64) (map[int64][]string, error) {
	names := make(map[int64][]string, len(postIDs))
	if len(postIDs) == 0 {
		return names, nil
	}

	placeholders := make([]string, len(postIDs))
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `
		SELECT ph.post_id, h.name
		FROM post_hashtags ph
		JOIN hashtags h ON h.id = ph.hashtag_id
		WHERE ph.post_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY h.name
	`
	rows, err := conn(r.db, tx).QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var name string
		if err := rows.Scan(&postID, &name); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		names[postID] = append(names[postID], name)
	}
	return names, rows.Err()
}

func (r *hashtagRepository) GetByName(ctx context.Context, name string) (*models.Hashtag, bool, error) {
	var h models.Hashtag
	query := `SELECT id, name, usage_count, created_at FROM hashtags WHERE name = $1`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&h.ID, &h.Name, &h.UsageCount, &h.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &h, true, nil
}

func (r *hashtagRepository) Popular(ctx context.Context, limit int) ([]*models.Hashtag, error) {
	query := `
		SELECT id, name, usage_count, created_at
		FROM hashtags
		WHERE usage_count > 0
		ORDER BY usage_count DESC, name ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var hashtags []*models.Hashtag
	for rows.Next() {
		var h models.Hashtag
		if err := rows.Scan(&h.ID, &h.Name, &h.UsageCount, &h.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		hashtags = append(hashtags, &h)
	}
	return hashtags, rows.Err()
}
