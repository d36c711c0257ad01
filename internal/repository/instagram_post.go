package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tumas_backend/internal/model"
)

type instagramPostRepository struct {
	db *sqlx.DB
}

func NewInstagramPostRepository(db *sqlx.DB) InstagramPostRepository {
	return &instagramPostRepository{db: db}
}

const uniqueViolation = "23505"

// Create inserts a new curated post.
func (r *instagramPostRepository) Create(ctx context.Context, post *model.InstagramPost) error {
	query := `
		INSERT INTO instagram_posts (post_url, caption, post_type, primary_media_url, media_urls, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		post.PostURL, post.Caption, post.PostType, post.PrimaryMediaURL,
		post.MediaURLs, post.DisplayOrder, post.IsActive,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return model.ErrDuplicatePostURL
		}
		return fmt.Errorf("insert instagram post: %w", err)
	}
	return nil
}

func (r *instagramPostRepository) GetByID(ctx context.Context, id int64) (*model.InstagramPost, error) {
	query := `
		SELECT id, post_url, caption, post_type, primary_media_url, media_urls, display_order, is_active, created_at
		FROM instagram_posts
		WHERE id = $1
	`
	var post model.InstagramPost
	err := r.db.GetContext(ctx, &post, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrInstagramPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get instagram post: %w", err)
	}
	return &post, nil
}

func (r *instagramPostRepository) Update(ctx context.Context, post *model.InstagramPost) error {
	query := `
		UPDATE instagram_posts
		SET post_url = $1, caption = $2, post_type = $3, primary_media_url = $4,
		    media_urls = $5, display_order = $6, is_active = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		post.PostURL, post.Caption, post.PostType, post.PrimaryMediaURL,
		post.MediaURLs, post.DisplayOrder, post.IsActive, post.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return model.ErrDuplicatePostURL
		}
		return fmt.Errorf("update instagram post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrInstagramPostNotFound
	}
	return nil
}

func (r *instagramPostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM instagram_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete instagram post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrInstagramPostNotFound
	}
	return nil
}

// ListActive returns active posts in display order: lower display_order
// first, ties broken by most recent creation.
func (r *instagramPostRepository) ListActive(ctx context.Context, limit int) ([]model.InstagramPost, error) {
	query := `
		SELECT id, post_url, caption, post_type, primary_media_url, media_urls, display_order, is_active, created_at
		FROM instagram_posts
		WHERE is_active
		ORDER BY display_order ASC, created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	posts := []model.InstagramPost{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list active instagram posts: %w", err)
	}
	return posts, nil
}

func (r *instagramPostRepository) ListAll(ctx context.Context) ([]model.InstagramPost, error) {
	query := `
		SELECT id, post_url, caption, post_type, primary_media_url, media_urls, display_order, is_active, created_at
		FROM instagram_posts
		ORDER BY display_order ASC, created_at DESC
	`
	posts := []model.InstagramPost{}
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list instagram posts: %w", err)
	}
	return posts, nil
}

func (r *instagramPostRepository) GetActivePostURLs(ctx context.Context) ([]string, error) {
	urls := []string{}
	query := `SELECT post_url FROM instagram_posts WHERE is_active ORDER BY display_order ASC, created_at DESC`
	if err := r.db.SelectContext(ctx, &urls, query); err != nil {
		return nil, fmt.Errorf("get active post urls: %w", err)
	}
	return urls, nil
}

// ExistsByURL checks URL uniqueness; excludeID lets an edited post keep
// its own URL.
func (r *instagramPostRepository) ExistsByURL(ctx context.Context, postURL string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM instagram_posts WHERE post_url = $1 AND id <> $2)`
	if err := r.db.GetContext(ctx, &exists, query, postURL, excludeID); err != nil {
		return false, fmt.Errorf("check post url exists: %w", err)
	}
	return exists, nil
}

func (r *instagramPostRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(display_order), 0) FROM instagram_posts`
	if err := r.db.GetContext(ctx, &max, query); err != nil {
		return 0, fmt.Errorf("get max display order: %w", err)
	}
	return max, nil
}
