package booking

import (
	"carrental/internal/domain"
	"carrental/internal/domain/pricing"
)

// CreateBookingRequest carries the rental terms inline:
// rental_period, start_date, end_date, delivery_option, delivery_time.
type CreateBookingRequest struct {
	CarID string `json:"car_id" validate:"required,uuid"`
	pricing.Terms
	DeliveryAddress *domain.Address `json:"delivery_address"`
	SpecialRequests string          `json:"special_requests" validate:"max=2000"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type SetPaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

type ReportIncidentRequest struct {
	Details string   `json:"details" validate:"required,max=4000"`
	Photos  []string `json:"photos" validate:"max=20,dive,required"`
}

type ListQuery struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CarID         string `form:"car_id"`
}

// CreateResult reports the booking and whether the car follow-up write landed.
type CreateResult struct {
	Booking         *Booking `json:"booking"`
	CarMarkedBooked bool     `json:"car_marked_booked"`
}
