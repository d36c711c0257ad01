package model

import (
	"errors"
	"time"
)

// Section names for the content_sections table. Each section is a
// single upserted row with one text blob per language.
const (
	SectionHero    = "hero"
	SectionAbout   = "about"
	SectionMission = "mission"
	SectionTeam    = "team"
	SectionEvents  = "events"
	SectionTech    = "tech"
	SectionContact = "contact"
	SectionFooter  = "footer"
)

var knownSections = map[string]struct{}{
	SectionHero:    {},
	SectionAbout:   {},
	SectionMission: {},
	SectionTeam:    {},
	SectionEvents:  {},
	SectionTech:    {},
	SectionContact: {},
	SectionFooter:  {},
}

// IsKnownSection reports whether name is one of the page sections.
func IsKnownSection(name string) bool {
	_, ok := knownSections[name]
	return ok
}

// ContentSection is one informational page section with trilingual text.
type ContentSection struct {
	ID        int64     `db:"id" json:"id"`
	Section   string    `db:"section" json:"section"`
	TitleSq   string    `db:"title_sq" json:"title_sq"`
	TitleEn   string    `db:"title_en" json:"title_en"`
	TitleDe   string    `db:"title_de" json:"title_de"`
	BodySq    string    `db:"body_sq" json:"body_sq"`
	BodyEn    string    `db:"body_en" json:"body_en"`
	BodyDe    string    `db:"body_de" json:"body_de"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeamMember is a society member shown in the team grid.
type TeamMember struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	RoleSq       string `db:"role_sq" json:"role_sq"`
	RoleEn       string `db:"role_en" json:"role_en"`
	RoleDe       string `db:"role_de" json:"role_de"`
	ImageURL     string `db:"image_url" json:"image_url"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
	IsActive     bool   `db:"is_active" json:"is_active"`
}

// Event is an upcoming or past society event.
type Event struct {
	ID            int64      `db:"id" json:"id"`
	TitleSq       string     `db:"title_sq" json:"title_sq"`
	TitleEn       string     `db:"title_en" json:"title_en"`
	TitleDe       string     `db:"title_de" json:"title_de"`
	DescriptionSq string     `db:"description_sq" json:"description_sq"`
	DescriptionEn string     `db:"description_en" json:"description_en"`
	DescriptionDe string     `db:"description_de" json:"description_de"`
	Location      string     `db:"location" json:"location"`
	ImageURL      string     `db:"image_url" json:"image_url"`
	StartsAt      *time.Time `db:"starts_at" json:"starts_at"`
	DisplayOrder  int        `db:"display_order" json:"display_order"`
	IsActive      bool       `db:"is_active" json:"is_active"`
}

// ContactMessage is a persisted contact-form submission.
type ContactMessage struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ContactRequest is the public contact-form body.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// UpsertSectionRequest carries the editable fields of a page section.
type UpsertSectionRequest struct {
	TitleSq  string `json:"title_sq"`
	TitleEn  string `json:"title_en"`
	TitleDe  string `json:"title_de"`
	BodySq   string `json:"body_sq"`
	BodyEn   string `json:"body_en"`
	BodyDe   string `json:"body_de"`
	ImageURL string `json:"image_url"`
}

// Content domain errors
var (
	ErrUnknownSection  = errors.New("unknown content section")
	ErrMissingRequired = errors.New("missing required field")
)
