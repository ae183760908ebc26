package notification

import (
	"context"
	"time"

	"carrental/internal/pkg/apperr"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = apperr.New(apperr.CodeNotFound, "notification not found")

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Notify records a message for the staff member assigned to a maintenance record.
func (s *Service) Notify(ctx context.Context, recipientID, maintenanceID uuid.UUID, message string) error {
	n := &Notification{
		RecipientID:   recipientID,
		MaintenanceID: maintenanceID,
		Message:       message,
		Status:        StatusUnread,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return apperr.Backend(err, "failed to create notification")
	}
	return nil
}

func (s *Service) ListMine(ctx context.Context, recipientID uuid.UUID, q ListQuery) (*ListResponse, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	list, err := s.repo.ListByRecipient(ctx, recipientID, q.UnreadOnly, limit)
	if err != nil {
		return nil, apperr.Backend(err, "failed to list notifications")
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		unread = 0
	}
	return &ListResponse{Notifications: list, UnreadCount: unread}, nil
}

// MarkRead reports another user's notification as not found.
func (s *Service) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, id, recipientID, time.Now().UTC())
	if err != nil {
		return apperr.Backend(err, "failed to update notification")
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, recipientID, time.Now().UTC())
	if err != nil {
		return 0, apperr.Backend(err, "failed to update notifications")
	}
	return n, nil
}
