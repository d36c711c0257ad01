package service

import (
	"context"
	"fmt"
	"strings"

	"tumas_backend/internal/model"
	"tumas_backend/internal/repository"
)

// PagePayload is everything the frontend needs to render the site in
// one request: the informational sections, team, events, and the
// Instagram block.
type PagePayload struct {
	Sections    []model.ContentSection `json:"sections"`
	TeamMembers []model.TeamMember     `json:"team_members"`
	Events      []model.Event          `json:"events"`
	Instagram   *InstagramSection      `json:"instagram"`
}

type ContentService struct {
	contentRepo repository.ContentRepository
	instagram   *InstagramService
}

func NewContentService(contentRepo repository.ContentRepository, instagram *InstagramService) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		instagram:   instagram,
	}
}

// GetPage assembles the full page payload.
func (s *ContentService) GetPage(ctx context.Context) (*PagePayload, error) {
	sections, err := s.contentRepo.GetSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("get sections: %w", err)
	}

	team, err := s.contentRepo.ListTeamMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	events, err := s.contentRepo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	instagramSection, err := s.instagram.DisplaySection(ctx)
	if err != nil {
		return nil, fmt.Errorf("instagram section: %w", err)
	}

	return &PagePayload{
		Sections:    sections,
		TeamMembers: team,
		Events:      events,
		Instagram:   instagramSection,
	}, nil
}

// UpsertSection writes one informational section.
func (s *ContentService) UpsertSection(ctx context.Context, section string, req model.UpsertSectionRequest) (*model.ContentSection, error) {
	if !model.IsKnownSection(section) {
		return nil, model.ErrUnknownSection
	}
	return s.contentRepo.UpsertSection(ctx, section, req)
}

// SubmitContact persists a contact-form submission.
func (s *ContentService) SubmitContact(ctx context.Context, req model.ContactRequest) (*model.ContactMessage, error) {
	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Message) == "" {
		return nil, model.ErrMissingRequired
	}

	msg := &model.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.contentRepo.CreateContactMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListContactMessages returns the most recent submissions for admins.
func (s *ContentService) ListContactMessages(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	return s.contentRepo.ListContactMessages(ctx, limit)
}
