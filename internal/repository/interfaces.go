package repository

import (
	"context"

	"tumas_backend/internal/model"
)

// InstagramPostRepository persists curated Instagram posts.
type InstagramPostRepository interface {
	// Create inserts a post; model.ErrDuplicatePostURL on a URL clash.
	Create(ctx context.Context, post *model.InstagramPost) error

	GetByID(ctx context.Context, id int64) (*model.InstagramPost, error)

	// Update rewrites the editable fields; created_at is immutable.
	Update(ctx context.Context, post *model.InstagramPost) error

	Delete(ctx context.Context, id int64) error

	// ListActive returns active posts in display order (lower first,
	// ties newest-created-first), limited to limit when limit > 0.
	ListActive(ctx context.Context, limit int) ([]model.InstagramPost, error)

	// ListAll returns every post, active or not, in display order.
	ListAll(ctx context.Context) ([]model.InstagramPost, error)

	// GetActivePostURLs returns the URLs of active posts for warming.
	GetActivePostURLs(ctx context.Context) ([]string, error)

	// ExistsByURL reports whether another post (excluding excludeID,
	// 0 for none) already uses postURL.
	ExistsByURL(ctx context.Context, postURL string, excludeID int64) (bool, error)

	// MaxDisplayOrder returns the highest display_order, 0 when empty.
	MaxDisplayOrder(ctx context.Context) (int, error)
}

// InstagramConfigRepository persists the singleton display config.
// There is deliberately no Delete: the config is never deleted once
// created.
type InstagramConfigRepository interface {
	// Get returns the config row; model.ErrConfigNotFound when absent.
	Get(ctx context.Context) (*model.InstagramConfig, error)

	// Create inserts the one allowed row; model.ErrConfigExists when a
	// row already exists.
	Create(ctx context.Context, cfg *model.InstagramConfig) error

	Update(ctx context.Context, cfg *model.InstagramConfig) error
}

// ContentRepository persists the informational page sections.
type ContentRepository interface {
	GetSections(ctx context.Context) ([]model.ContentSection, error)
	UpsertSection(ctx context.Context, section string, req model.UpsertSectionRequest) (*model.ContentSection, error)
	ListTeamMembers(ctx context.Context) ([]model.TeamMember, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error
	ListContactMessages(ctx context.Context, limit int) ([]model.ContactMessage, error)
}

// AdminRepository looks up administrator credentials.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.AdminAccount, error)

	// Upsert inserts the account or refreshes its password hash. Used to
	// bootstrap the env-configured admin on startup.
	Upsert(ctx context.Context, username, passwordHash string) error
}
