package booking

import (
	"context"

	"carrental/internal/domain/car"

	"github.com/google/uuid"
)

// CarStore is the slice of the car workflow a booking needs. MarkBooked and
// Release are follow-up writes that run after the booking write and are
// never rolled back together with it.
type CarStore interface {
	Get(ctx context.Context, id uuid.UUID) (*car.Car, error)
	MarkBooked(ctx context.Context, id uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
}
