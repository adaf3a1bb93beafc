package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/appnutry/nutry-backend/pkg/db/models"
	"github.com/appnutry/nutry-backend/pkg/enums"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
	"github.com/appnutry/nutry-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Service defines notification list/read operations plus reminder creation
// used by the background jobs.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CreateReminder(ctx context.Context, params ReminderParams) (bool, error)
	MarkDelivered(ctx context.Context, ids []uuid.UUID) (int64, error)
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination for notifications.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// ReminderParams describes a scheduled reminder tied to a plan.
type ReminderParams struct {
	UserID      uuid.UUID
	PatientID   *uuid.UUID
	PlanID      *uuid.UUID
	Type        enums.NotificationType
	Title       string
	Message     string
	ScheduledAt time.Time
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		UserID:     params.UserID,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, userID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

// CreateReminder writes a pending notification, deduplicating plan reminders
// for the same day. It reports whether a new row was created.
func (s *service) CreateReminder(ctx context.Context, params ReminderParams) (bool, error) {
	if params.UserID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !params.Type.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "unknown notification type").
			WithDetails(map[string]any{"type": string(params.Type)})
	}
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "notification title required")
	}
	if params.ScheduledAt.IsZero() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time required")
	}

	notification := &models.Notification{
		UserID:      params.UserID,
		PatientID:   params.PatientID,
		PlanID:      params.PlanID,
		Type:        params.Type,
		Status:      enums.NotificationStatusPending,
		Title:       title,
		Message:     strings.TrimSpace(params.Message),
		ScheduledAt: params.ScheduledAt.UTC(),
	}

	if params.PlanID == nil {
		if err := s.repo.Create(ctx, notification); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
		}
		return true, nil
	}

	created, err := s.repo.CreateIfAbsent(ctx, notification)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reminder")
	}
	return created, nil
}

func (s *service) MarkDelivered(ctx context.Context, ids []uuid.UUID) (int64, error) {
	count, err := s.repo.MarkDelivered(ctx, ids)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications delivered")
	}
	return count, nil
}

// PurgeRead removes dismissed notifications older than the retention window.
func (s *service) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention must be positive")
	}
	cutoff := time.Now().UTC().Add(-retention)
	count, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge notifications")
	}
	return count, nil
}
