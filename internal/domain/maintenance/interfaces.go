package maintenance

import (
	"context"

	"carrental/internal/domain/access"
	"carrental/internal/domain/car"

	"github.com/google/uuid"
)

type CarLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*car.Car, error)
}

// Notifier delivers a message to the staff member assigned to a record.
type Notifier interface {
	Notify(ctx context.Context, recipientID, maintenanceID uuid.UUID, message string) error
}

// StaffDirectory resolves the role of a prospective assignee.
type StaffDirectory interface {
	ResolveRole(ctx context.Context, userID uuid.UUID) (access.Role, error)
}
