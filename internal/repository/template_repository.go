package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
)

type TemplateRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Template, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Template, error)
	Create(ctx context.Context, t *models.Template) (*models.Template, error)
	Update(ctx context.Context, t *models.Template) (*models.Template, error)
	Remove(ctx context.Context, id int64) error
}

type templateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

const selectTemplate = `
	SELECT id, user_id, name, content, hashtags, is_active, created_at, updated_at
	FROM templates
`

func scanTemplate(row interface{ Scan(...any) error }) (*models.Template, error) {
	var t models.Template
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Content, &t.Hashtags, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id int64) (*models.Template, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, selectTemplate+` WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return t, nil
}

func (r *templateRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Template, error) {
	rows, err := r.db.QueryContext(ctx, selectTemplate+` WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *templateRepository) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	query := `
		INSERT INTO templates (user_id, name, content, hashtags, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	created := *t
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt

	err := r.db.QueryRowContext(ctx, query, created.UserID, created.Name, created.Content, created.Hashtags,
		created.IsActive, created.CreatedAt, created.UpdatedAt).Scan(&created.ID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &created, nil
}

func (r *templateRepository) Update(ctx context.Context, t *models.Template) (*models.Template, error) {
	query := `
		UPDATE templates
		SET name = $1,
			content = $2,
			hashtags = $3,
			is_active = $4,
			updated_at = $5
		WHERE id = $6
	`
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Content, t.Hashtags, t.IsActive, time.Now().UTC(), t.ID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if err := expectRows(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *templateRepository) Remove(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectRows(res)
}
