package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tumas_backend/internal/model"
)

type instagramConfigRepository struct {
	db *sqlx.DB
}

func NewInstagramConfigRepository(db *sqlx.DB) InstagramConfigRepository {
	return &instagramConfigRepository{db: db}
}

func (r *instagramConfigRepository) Get(ctx context.Context) (*model.InstagramConfig, error) {
	query := `
		SELECT id, posts_per_page, show_captions, max_caption_length,
		       section_title_sq, section_title_en, section_title_de, is_active
		FROM instagram_config
		LIMIT 1
	`
	var cfg model.InstagramConfig
	err := r.db.GetContext(ctx, &cfg, query)
	if err == sql.ErrNoRows {
		return nil, model.ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get instagram config: %w", err)
	}
	return &cfg, nil
}

// Create inserts the singleton row. The table's constant-true unique
// column makes a second insert fail with a unique violation, which is
// surfaced as model.ErrConfigExists.
func (r *instagramConfigRepository) Create(ctx context.Context, cfg *model.InstagramConfig) error {
	query := `
		INSERT INTO instagram_config
			(posts_per_page, show_captions, max_caption_length,
			 section_title_sq, section_title_en, section_title_de, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		cfg.PostsPerPage, cfg.ShowCaptions, cfg.MaxCaptionLength,
		cfg.SectionTitleSq, cfg.SectionTitleEn, cfg.SectionTitleDe, cfg.IsActive,
	).Scan(&cfg.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return model.ErrConfigExists
		}
		return fmt.Errorf("insert instagram config: %w", err)
	}
	return nil
}

func (r *instagramConfigRepository) Update(ctx context.Context, cfg *model.InstagramConfig) error {
	query := `
		UPDATE instagram_config
		SET posts_per_page = $1, show_captions = $2, max_caption_length = $3,
		    section_title_sq = $4, section_title_en = $5, section_title_de = $6, is_active = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		cfg.PostsPerPage, cfg.ShowCaptions, cfg.MaxCaptionLength,
		cfg.SectionTitleSq, cfg.SectionTitleEn, cfg.SectionTitleDe, cfg.IsActive, cfg.ID,
	)
	if err != nil {
		return fmt.Errorf("update instagram config: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrConfigNotFound
	}
	return nil
}
