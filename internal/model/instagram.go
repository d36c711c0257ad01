package model

import (
	"errors"
	"time"
)

// Post types. The type is a declarative hint set by the admin or the
// curation rules; it is not enforced against the actual media shape.
const (
	PostTypeImage    = "image"
	PostTypeCarousel = "carousel"
	PostTypeVideo    = "video"
	PostTypeReel     = "reel"
)

// InstagramPost is a manually curated Instagram post.
type InstagramPost struct {
	ID              int64     `db:"id" json:"id"`
	PostURL         string    `db:"post_url" json:"post_url"`
	Caption         string    `db:"caption" json:"caption"`
	PostType        string    `db:"post_type" json:"post_type"`
	PrimaryMediaURL string    `db:"primary_media_url" json:"primary_media_url"`
	MediaURLs       URLList   `db:"media_urls" json:"media_urls"`
	DisplayOrder    int       `db:"display_order" json:"display_order"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// AllMediaURLs returns the primary URL followed by the additional media
// URLs, with empty entries dropped. Order is the carousel display
// order; a media entry equal to the primary is kept, since the list is
// the verbatim carousel and the primary is routinely its first item.
func (p *InstagramPost) AllMediaURLs() []string {
	urls := make([]string, 0, len(p.MediaURLs)+1)
	if p.PrimaryMediaURL != "" {
		urls = append(urls, p.PrimaryMediaURL)
	}
	for _, u := range p.MediaURLs {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// MediaCount returns the total number of stored media items.
func (p *InstagramPost) MediaCount() int {
	return len(p.AllMediaURLs())
}

// IsCarousel reports whether the post should render as a carousel.
func (p *InstagramPost) IsCarousel() bool {
	return p.PostType == PostTypeCarousel || p.MediaCount() > 1
}

// InstagramConfig is the singleton display configuration for the
// Instagram section. Exactly one row may exist; creation of a second
// fails at the storage boundary and deletion is disallowed.
type InstagramConfig struct {
	ID               int64  `db:"id" json:"id"`
	PostsPerPage     int    `db:"posts_per_page" json:"posts_per_page"`
	ShowCaptions     bool   `db:"show_captions" json:"show_captions"`
	MaxCaptionLength int    `db:"max_caption_length" json:"max_caption_length"`
	SectionTitleSq   string `db:"section_title_sq" json:"section_title_sq"`
	SectionTitleEn   string `db:"section_title_en" json:"section_title_en"`
	SectionTitleDe   string `db:"section_title_de" json:"section_title_de"`
	IsActive         bool   `db:"is_active" json:"is_active"`
}

// CreateInstagramPostRequest is the admin write-path body for the full
// form. MediaURLsText is free text processed by the media URL curator.
type CreateInstagramPostRequest struct {
	PostURL         string `json:"post_url"`
	Caption         string `json:"caption"`
	MediaURLsText   string `json:"media_urls_text"`
	PostType        string `json:"post_type"`
	PrimaryMediaURL string `json:"primary_media_url"`
	DisplayOrder    int    `json:"display_order"`
	IsActive        bool   `json:"is_active"`
}

// QuickAddRequest is the simplified admin form: URL plus optional
// caption, with optional media auto-extraction via the embed service.
type QuickAddRequest struct {
	PostURL          string `json:"post_url"`
	Caption          string `json:"caption"`
	AutoExtractMedia bool   `json:"auto_extract_media"`
}

// UpdateInstagramConfigRequest carries the editable config fields.
type UpdateInstagramConfigRequest struct {
	PostsPerPage     int    `json:"posts_per_page"`
	ShowCaptions     bool   `json:"show_captions"`
	MaxCaptionLength int    `json:"max_caption_length"`
	SectionTitleSq   string `json:"section_title_sq"`
	SectionTitleEn   string `json:"section_title_en"`
	SectionTitleDe   string `json:"section_title_de"`
	IsActive         bool   `json:"is_active"`
}

// Instagram domain errors
var (
	ErrInstagramPostNotFound = errors.New("instagram post not found")
	ErrDuplicatePostURL      = errors.New("a post with this URL already exists")
	ErrInvalidPostURL        = errors.New("invalid Instagram post URL")
	ErrInvalidPostType       = errors.New("invalid post type")
	ErrNoValidMediaURLs      = errors.New("no valid URLs found in media text")
	ErrConfigNotFound        = errors.New("instagram config not found")
	ErrConfigExists          = errors.New("instagram config already exists")
	ErrConfigDeleteForbidden = errors.New("instagram config cannot be deleted")
)
