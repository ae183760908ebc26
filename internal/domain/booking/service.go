package booking

import (
	"context"
	"errors"
	"time"

	"carrental/internal/domain/access"
	"carrental/internal/domain/car"
	"carrental/internal/domain/pricing"
	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/logger"
	"carrental/internal/pkg/metrics"
	"carrental/internal/pkg/utils"

	"github.com/google/uuid"
)

type Options struct {
	// Strict enables the declared transition tables. Without it every status
	// write is blind and the last writer wins.
	Strict  bool
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

type Service struct {
	repo    Repository
	cars    CarStore
	strict  bool
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo Repository, cars CarStore, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		cars:    cars,
		strict:  opts.Strict,
		log:     log,
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

// Create inserts a Pending booking for an Available car and then marks the
// car Booked. The second write is best-effort: its failure is logged and
// reported in the result, the booking stays.
func (s *Service) Create(ctx context.Context, actor access.Actor, req CreateBookingRequest) (*CreateResult, error) {
	if !actor.Can(access.CapCreateBooking) {
		return nil, ErrForbidden
	}
	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return nil, ErrInvalidBooking.WithDetails(map[string]string{"car_id": "must be a uuid"})
	}

	c, err := s.cars.Get(ctx, carID)
	if err != nil {
		return nil, err
	}
	if c.Status != car.StatusAvailable {
		return nil, ErrCarNotAvailable
	}

	in, problems := req.Terms.Parse(c.Pricing)
	if problems == nil {
		problems = map[string]string{}
	}
	deliveryTime := ""
	if pricing.DeliveryOption(req.Delivery) == pricing.DeliveryDelivery {
		if req.DeliveryAddress == nil || req.DeliveryAddress.IsBlank() {
			problems["delivery_address"] = "required for delivery"
		}
		deliveryTime = req.DeliveryTime
		if deliveryTime == "" {
			deliveryTime = pricing.DefaultDeliveryTime
		}
	}
	if len(problems) > 0 {
		return nil, ErrInvalidBooking.WithDetails(problems)
	}

	q := pricing.NewQuote(in)
	b := &Booking{
		CarID:           carID,
		CustomerID:      actor.UserID,
		RentalPeriod:    in.Period,
		StartDate:       in.Start,
		EndDate:         in.End,
		DeliveryOption:  in.Delivery,
		DeliveryTime:    deliveryTime,
		SpecialRequests: req.SpecialRequests,
		Days:            q.Days,
		DailyRate:       q.DailyRate,
		DeliveryFee:     q.DeliveryFee,
		Deposit:         q.Deposit,
		TotalPrice:      q.Total,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
	}
	if in.Delivery == pricing.DeliveryDelivery {
		b.DeliveryAddress = req.DeliveryAddress
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, apperr.Backend(err, "failed to create booking")
	}
	s.metrics.IncBookingCreated()

	ctx = s.log.WithFields(ctx, map[string]any{"booking_id": b.ID.String(), "car_id": carID.String()})
	s.log.Info(ctx, "booking created")

	res := &CreateResult{Booking: b, CarMarkedBooked: true}
	if err := s.cars.MarkBooked(ctx, carID); err != nil {
		res.CarMarkedBooked = false
		s.metrics.IncFollowupFailure("mark_booked")
		s.log.Warn(ctx, "car status follow-up failed, booking kept", err)
	}
	return res, nil
}

// Get returns a booking to its customer or to admin-portal roles.
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actor.UserID && !actor.Can(access.CapAdminPortal) {
		return nil, ErrNotBookingOwner
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, actor access.Actor) ([]Booking, error) {
	return s.list(ctx, Filter{CustomerID: actor.UserID})
}

func (s *Service) List(ctx context.Context, actor access.Actor, q ListQuery) ([]Booking, error) {
	if !actor.Can(access.CapAdminPortal) {
		return nil, ErrForbidden
	}
	f := Filter{Status: Status(q.Status), PaymentStatus: PaymentStatus(q.PaymentStatus)}
	problems := map[string]string{}
	if f.Status != "" && !f.Status.IsValid() {
		problems["status"] = "unknown booking status"
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.IsValid() {
		problems["payment_status"] = "unknown payment status"
	}
	if q.CarID != "" {
		id, err := uuid.Parse(q.CarID)
		if err != nil {
			problems["car_id"] = "must be a uuid"
		}
		f.CarID = id
	}
	if len(problems) > 0 {
		return nil, apperr.New(apperr.CodeValidation, "invalid filter").WithDetails(problems)
	}
	return s.list(ctx, f)
}

// ListForOwner is the rental history of every car the actor owns.
func (s *Service) ListForOwner(ctx context.Context, actor access.Actor) ([]Booking, error) {
	out, err := s.repo.ListByCarOwner(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Backend(err, "failed to list bookings")
	}
	return out, nil
}

func (s *Service) list(ctx context.Context, f Filter) ([]Booking, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Backend(err, "failed to list bookings")
	}
	return out, nil
}

// SetStatus writes a booking status. Two admins acting at once both succeed
// and the later write wins unless strict mode is on.
func (s *Service) SetStatus(ctx context.Context, actor access.Actor, id uuid.UUID, to Status) (*Booking, error) {
	if !actor.Can(access.CapApproveBookings) {
		return nil, ErrForbidden
	}
	if !to.IsValid() {
		return nil, ErrInvalidStatus
	}

	var from []Status
	if s.strict {
		from = sourcesOf(statusTransitions, to)
		if len(from) == 0 {
			return nil, s.rejectTransition(ctx, "booking", id, to)
		}
	}
	prior, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.SetStatus(ctx, id, to, from...)
	if err != nil {
		return nil, apperr.Backend(err, "failed to update booking status")
	}
	if !ok {
		return nil, s.missOrConflict(ctx, "booking", id, to)
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = s.log.WithFields(ctx, map[string]any{"booking_id": id.String(), "status": string(to)})
	s.log.Info(ctx, "booking status changed")
	if to.IsTerminal() && !prior.Status.IsTerminal() {
		s.releaseCar(ctx, b)
	}
	return b, nil
}

// releaseCar frees the car unless another open booking still holds it.
func (s *Service) releaseCar(ctx context.Context, b *Booking) {
	held, err := s.repo.HasOpenBooking(ctx, b.CarID, b.ID)
	if err == nil && held {
		s.log.Info(ctx, "car still held by another booking, not released")
		return
	}
	if err == nil {
		err = s.cars.Release(ctx, b.CarID)
	}
	if err != nil {
		s.metrics.IncFollowupFailure("release")
		s.log.Warn(ctx, "car release follow-up failed", err)
	}
}

func (s *Service) Approve(ctx context.Context, actor access.Actor, id uuid.UUID) (*Booking, error) {
	return s.SetStatus(ctx, actor, id, StatusApproved)
}

func (s *Service) Cancel(ctx context.Context, actor access.Actor, id uuid.UUID) (*Booking, error) {
	return s.SetStatus(ctx, actor, id, StatusCancelled)
}

// SetPaymentStatus is independent of the booking status axis.
func (s *Service) SetPaymentStatus(ctx context.Context, actor access.Actor, id uuid.UUID, to PaymentStatus) (*Booking, error) {
	if !actor.Can(access.CapApproveBookings) {
		return nil, ErrForbidden
	}
	if !to.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}
	var from []PaymentStatus
	if s.strict {
		from = sourcesOf(paymentTransitions, to)
		if len(from) == 0 {
			return nil, s.rejectTransition(ctx, "payment", id, to)
		}
	}
	ok, err := s.repo.SetPaymentStatus(ctx, id, to, from...)
	if err != nil {
		return nil, apperr.Backend(err, "failed to update payment status")
	}
	if !ok {
		return nil, s.missOrConflict(ctx, "payment", id, to)
	}
	return s.load(ctx, id)
}

// ReportIncident records an incident on the caller's own booking. The
// ownership check is a read followed by a separate write.
func (s *Service) ReportIncident(ctx context.Context, actor access.Actor, id uuid.UUID, req ReportIncidentRequest) (*Booking, error) {
	if !actor.Can(access.CapReportIncident) {
		return nil, ErrForbidden
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != actor.UserID {
		return nil, ErrNotBookingOwner
	}

	now := s.now().UTC()
	inc := Incident{
		Reported:   true,
		Details:    req.Details,
		Photos:     utils.Photos{}.Append(req.Photos...),
		ReportedAt: &now,
		Status:     IncidentPending,
	}
	if err := s.repo.SaveIncident(ctx, id, inc); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, apperr.Backend(err, "failed to save incident")
	}
	s.log.Info(s.log.WithField(ctx, "booking_id", id.String()), "incident reported")
	b.Incident = inc
	return b, nil
}

func (s *Service) SetIncidentStatus(ctx context.Context, actor access.Actor, id uuid.UUID, to IncidentStatus) (*Booking, error) {
	if !actor.Can(access.CapAdminPortal) {
		return nil, ErrForbidden
	}
	if !to.IsValid() {
		return nil, ErrInvalidIncidentStatus
	}
	var from []IncidentStatus
	if s.strict {
		from = sourcesOf(incidentTransitions, to)
		if len(from) == 0 {
			return nil, s.rejectTransition(ctx, "incident", id, to)
		}
	}
	ok, err := s.repo.SetIncidentStatus(ctx, id, to, from...)
	if err != nil {
		return nil, apperr.Backend(err, "failed to update incident status")
	}
	if ok {
		return s.load(ctx, id)
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Incident.Reported {
		return nil, ErrNoIncident
	}
	s.metrics.IncTransitionRejected("incident")
	return nil, ErrInvalidTransition.WithDetails(map[string]string{"from": string(b.Incident.Status), "to": string(to)})
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, apperr.Backend(err, "failed to load booking")
	}
	return b, nil
}

// missOrConflict explains a status write that matched no row: either the
// booking is gone or strict mode refused the current state.
func (s *Service) missOrConflict(ctx context.Context, entity string, id uuid.UUID, to any) error {
	b, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	current := string(b.Status)
	if entity == "payment" {
		current = string(b.PaymentStatus)
	}
	s.metrics.IncTransitionRejected(entity)
	return ErrInvalidTransition.WithDetails(map[string]any{"from": current, "to": to})
}

func (s *Service) rejectTransition(ctx context.Context, entity string, id uuid.UUID, to any) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	s.metrics.IncTransitionRejected(entity)
	return ErrInvalidTransition.WithDetails(map[string]any{"to": to})
}
