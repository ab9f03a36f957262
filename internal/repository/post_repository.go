package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
)

type PostRepository interface {
	List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post, hashtags []string) (*models.Post, error)
	Update(ctx context.Context, id int64, patch *models.PostPatch) (*models.Post, error)
	SoftDelete(ctx context.Context, id int64) error
	Duplicate(ctx context.Context, id, ownerID int64) (*models.Post, error)
	GetDue(ctx context.Context, now time.Time) ([]*models.Post, error)
	SetStatus(ctx context.Context, id int64, status string, errorMessage *string, now time.Time) (*models.Post, error)
}

type postRepository struct {
	db   *sql.DB
	tags *hashtagRepository
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db, tags: &hashtagRepository{db: db}}
}

const selectPost = `
	SELECT p.id, p.user_id, COALESCE(u.username, ''), p.title, p.content, p.status,
		p.scheduled_at, p.published_at, p.error_message,
		(SELECT COUNT(*) FROM post_stats s WHERE s.post_id = p.id),
		p.created_at, p.updated_at
	FROM posts p
	LEFT JOIN users u ON u.id = p.user_id
`

func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	query := selectPost + ` WHERE p.deleted_at IS NULL`
	var args []any

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND p.user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.queryPosts(ctx, nil, query, args...)
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.getByID(ctx, nil, id)
}

func (r *postRepository) getByID(ctx context.Context, tx *sql.Tx, id int64) (*models.Post, error) {
	posts, err := r.queryPosts(ctx, tx, selectPost+` WHERE p.id = $1 AND p.deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return posts[0], nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, hashtags []string) (*models.Post, error) {
	status := post.Status
	if status == "" {
		status = models.PostStatusDraft
	}

	var created *models.Post
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := r.insert(ctx, tx, post.UserID, post.Title, post.Content, status, post.ScheduledAt)
		if err != nil {
			return err
		}
		if err := r.tags.replaceTags(ctx, tx, id, models.NormalizeHashtags(hashtags)); err != nil {
			return err
		}
		created, err = r.getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postRepository) insert(ctx context.Context, tx *sql.Tx, userID int64, title, content, status string, scheduledAt *time.Time) (int64, error) {
	query := `
		INSERT INTO posts (user_id, title, content, status, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now().UTC()

	var id int64
	err := conn(r.db, tx).QueryRowContext(ctx, query, userID, title, content, status, utcOrNil(scheduledAt), now, now).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *postRepository) Update(ctx context.Context, id int64, patch *models.PostPatch) (*models.Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($1, title),
			content = COALESCE($2, content),
			status = COALESCE($3, status),
			scheduled_at = COALESCE($4, scheduled_at),
			updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`

	var updated *models.Post
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			stringOrNil(patch.Title),
			stringOrNil(patch.Content),
			stringOrNil(patch.Status),
			utcOrNil(patch.ScheduledAt),
			time.Now().UTC(),
			id,
		)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
		if err := expectRows(res); err != nil {
			return err
		}

		if patch.Hashtags != nil {
			if err := r.tags.replaceTags(ctx, tx, id, models.NormalizeHashtags(*patch.Hashtags)); err != nil {
				return err
			}
		}

		updated, err = r.getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE posts
		SET deleted_at = $1,
			status = $2,
			updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, now, models.PostStatusDeleted, now, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectRows(res)
}

func (r *postRepository) Duplicate(ctx context.Context, id, ownerID int64) (*models.Post, error) {
	var duplicate *models.Post
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		source, err := r.getByID(ctx, tx, id)
		if err != nil {
			return err
		}

		newID, err := r.insert(ctx, tx, ownerID, source.Title+models.CopySuffix, source.Content, models.PostStatusDraft, nil)
		if err != nil {
			return err
		}
		if err := r.tags.replaceTags(ctx, tx, newID, source.Hashtags); err != nil {
			return err
		}

		duplicate, err = r.getByID(ctx, tx, newID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return duplicate, nil
}

func (r *postRepository) GetDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	query := selectPost + `
		WHERE p.deleted_at IS NULL
			AND p.status = $1
			AND p.scheduled_at <= $2
		ORDER BY p.scheduled_at ASC, p.id ASC
	`
	return r.queryPosts(ctx, nil, query, models.PostStatusScheduled, now.UTC())
}

func (r *postRepository) SetStatus(ctx context.Context, id int64, status string, errorMessage *string, now time.Time) (*models.Post, error) {
	now = now.UTC()

	var post *models.Post
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var res sql.Result
		var err error
		if status == models.PostStatusPublished {
			res, err = tx.ExecContext(ctx, `
				UPDATE posts
				SET status = $1, error_message = $2, published_at = $3, updated_at = $4
				WHERE id = $5 AND deleted_at IS NULL
			`, status, stringOrNil(errorMessage), now, now, id)
		} else {
			res, err = tx.ExecContext(ctx, `
				UPDATE posts
				SET status = $1, error_message = $2, updated_at = $3
				WHERE id = $4 AND deleted_at IS NULL
			`, status, stringOrNil(errorMessage), now, id)
		}
		if err != nil {
			slog.Info(err.Error())
			return err
		}
		if err := expectRows(res); err != nil {
			return err
		}

		post, err = r.getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) queryPosts(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]*models.Post, error) {
	rows, err := conn(r.db, tx).QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	var ids []int64
	for rows.Next() {
		var post models.Post
		var scheduledAt, publishedAt sql.NullTime
		var errorMessage sql.NullString
		err := rows.Scan(&post.ID, &post.UserID, &post.Username, &post.Title, &post.Content, &post.Status,
			&scheduledAt, &publishedAt, &errorMessage, &post.StatsCount, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		post.ScheduledAt = timePtr(scheduledAt)
		post.PublishedAt = timePtr(publishedAt)
		post.ErrorMessage = stringPtr(errorMessage)
		posts = append(posts, &post)
		ids = append(ids, post.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	names, err := r.tags.namesByPostIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		post.Hashtags = names[post.ID]
		if post.Hashtags == nil {
			post.Hashtags = []string{}
		}
	}
	return posts, nil
}
