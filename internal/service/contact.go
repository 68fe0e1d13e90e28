// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mvargas/campana-go/internal/store"
)

// Field limits for contact form submissions.
const (
	MaxContactNameLen    = 200
	MaxContactSubjectLen = 300
	MaxContactMessageLen = 5000
)

// Contact intake errors.
var (
	ErrContactMissingFields = errors.New("name, email and message are required")
	ErrContactInvalidEmail  = errors.New("invalid email address")
	ErrContactTooLong       = errors.New("field exceeds maximum length")
)

// ContactInput is a contact form submission before validation.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ContactService validates and stores contact form submissions.
type ContactService struct {
	queries   *store.Queries
	sanitizer *bluemonday.Policy
}

// NewContactService creates a new ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{
		queries:   store.New(db),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Submit validates a submission and stores it. All fields are stripped of
// markup before storage so the admin inbox renders them as plain text.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (store.ContactMessage, error) {
	input.Name = strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(s.sanitizer.Sanitize(input.Phone))
	input.Subject = strings.TrimSpace(s.sanitizer.Sanitize(input.Subject))
	input.Message = strings.TrimSpace(s.sanitizer.Sanitize(input.Message))

	if input.Name == "" || input.Email == "" || input.Message == "" {
		return store.ContactMessage{}, ErrContactMissingFields
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return store.ContactMessage{}, ErrContactInvalidEmail
	}
	if len(input.Name) > MaxContactNameLen ||
		len(input.Subject) > MaxContactSubjectLen ||
		len(input.Message) > MaxContactMessageLen {
		return store.ContactMessage{}, ErrContactTooLong
	}

	return s.queries.CreateContactMessage(ctx, store.CreateContactMessageParams{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Subject:   input.Subject,
		Message:   input.Message,
		CreatedAt: time.Now(),
	})
}

// List returns a page of stored messages, newest first.
func (s *ContactService) List(ctx context.Context, limit, offset int64) ([]store.ContactMessage, int64, error) {
	messages, err := s.queries.ListContactMessages(ctx, store.ListContactMessagesParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := s.queries.CountContactMessages(ctx)
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// Delete removes a stored message.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return s.queries.DeleteContactMessage(ctx, id)
}
