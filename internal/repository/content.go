package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tumas_backend/internal/model"
)

type contentRepository struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) GetSections(ctx context.Context) ([]model.ContentSection, error) {
	sections := []model.ContentSection{}
	query := `
		SELECT id, section, title_sq, title_en, title_de, body_sq, body_en, body_de, image_url, updated_at
		FROM content_sections
		ORDER BY section
	`
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("get content sections: %w", err)
	}
	return sections, nil
}

// UpsertSection creates or replaces the single row for a section.
func (r *contentRepository) UpsertSection(ctx context.Context, section string, req model.UpsertSectionRequest) (*model.ContentSection, error) {
	query := `
		INSERT INTO content_sections (section, title_sq, title_en, title_de, body_sq, body_en, body_de, image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (section) DO UPDATE
		SET title_sq = EXCLUDED.title_sq, title_en = EXCLUDED.title_en, title_de = EXCLUDED.title_de,
		    body_sq = EXCLUDED.body_sq, body_en = EXCLUDED.body_en, body_de = EXCLUDED.body_de,
		    image_url = EXCLUDED.image_url, updated_at = NOW()
		RETURNING id, section, title_sq, title_en, title_de, body_sq, body_en, body_de, image_url, updated_at
	`
	var out model.ContentSection
	err := r.db.GetContext(ctx, &out, query,
		section, req.TitleSq, req.TitleEn, req.TitleDe,
		req.BodySq, req.BodyEn, req.BodyDe, req.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert content section: %w", err)
	}
	return &out, nil
}

func (r *contentRepository) ListTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	members := []model.TeamMember{}
	query := `
		SELECT id, name, role_sq, role_en, role_de, image_url, display_order, is_active
		FROM team_members
		WHERE is_active
		ORDER BY display_order ASC, id ASC
	`
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

func (r *contentRepository) ListEvents(ctx context.Context) ([]model.Event, error) {
	events := []model.Event{}
	query := `
		SELECT id, title_sq, title_en, title_de, description_sq, description_en, description_de,
		       location, image_url, starts_at, display_order, is_active
		FROM events
		WHERE is_active
		ORDER BY display_order ASC, starts_at DESC NULLS LAST
	`
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *contentRepository) CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, msg.Name, msg.Email, msg.Subject, msg.Message).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *contentRepository) ListContactMessages(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	messages := []model.ContactMessage{}
	query := `
		SELECT id, name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &messages, query, limit); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}
