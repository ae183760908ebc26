package car

import (
	"context"
	"errors"
	"strings"
	"time"

	"carrental/internal/domain/access"
	"carrental/internal/domain/pricing"
	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/logger"
	"carrental/internal/pkg/utils"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log}
}

// SubmitListing stores a new listing awaiting approval. The rate ordering
// (long-term at most short-term) is policy only and not checked.
func (s *Service) SubmitListing(ctx context.Context, actor access.Actor, req SubmitListingRequest) (*Car, error) {
	if !actor.Can(access.CapSubmitCar) {
		return nil, ErrForbidden
	}
	problems := map[string]string{}
	if req.ShortTermRate.IsNegative() {
		problems["short_term_rate"] = "must not be negative"
	}
	if req.LongTermRate.IsNegative() {
		problems["long_term_rate"] = "must not be negative"
	}
	var from, until *time.Time
	if req.AvailableFrom != "" {
		if t, err := pricing.ParseDate(req.AvailableFrom); err == nil {
			from = &t
		}
	}
	if req.AvailableUntil != "" {
		if t, err := pricing.ParseDate(req.AvailableUntil); err == nil {
			until = &t
		}
	}
	if from != nil && until != nil && until.Before(*from) {
		problems["available_until"] = "must not be before available_from"
	}
	if len(problems) > 0 {
		return nil, ErrInvalidListing.WithDetails(problems)
	}

	c := &Car{
		OwnerID:        actor.UserID,
		Make:           strings.TrimSpace(req.Make),
		Model:          strings.TrimSpace(req.Model),
		Year:           req.Year,
		Type:           Type(req.Type),
		Color:          strings.TrimSpace(req.Color),
		Description:    req.Description,
		Photos:         utils.Photos{}.Append(req.Photos...),
		Status:         StatusNew,
		Pricing:        pricing.Rates{ShortTerm: req.ShortTermRate, LongTerm: req.LongTermRate},
		Specifications: req.Specifications,
		AvailableFrom:  from,
		AvailableUntil: until,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperr.Backend(err, "failed to submit listing")
	}
	s.log.Info(s.log.WithField(ctx, "car_id", c.ID.String()), "listing submitted")
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Car, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCarNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, apperr.Backend(err, "failed to load car")
	}
	return c, nil
}

// List browses listings. Callers without an admin or service view only see
// Available cars regardless of the requested status.
func (s *Service) List(ctx context.Context, actor access.Actor, q ListQuery) ([]Car, error) {
	f := Filter{Type: Type(q.Type), Make: strings.TrimSpace(q.Make), Status: StatusAvailable}
	if q.Status != "" && (actor.Can(access.CapAdminPortal) || actor.Can(access.CapServicePortal)) {
		st := Status(q.Status)
		if !st.IsValid() {
			return nil, ErrInvalidStatus
		}
		f.Status = st
	}
	return s.list(ctx, f)
}

func (s *Service) ListMine(ctx context.Context, actor access.Actor) ([]Car, error) {
	return s.list(ctx, Filter{OwnerID: actor.UserID})
}

func (s *Service) ListPending(ctx context.Context, actor access.Actor) ([]Car, error) {
	if !actor.Can(access.CapApproveCars) {
		return nil, ErrForbidden
	}
	return s.list(ctx, Filter{Status: StatusNew})
}

func (s *Service) list(ctx context.Context, f Filter) ([]Car, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Backend(err, "failed to list cars")
	}
	return out, nil
}

// Approve moves a New listing to Available. A listing that is no longer New
// is reported as not found and left unchanged.
func (s *Service) Approve(ctx context.Context, actor access.Actor, id uuid.UUID) (*Car, error) {
	if !actor.Can(access.CapApproveCars) {
		return nil, ErrForbidden
	}
	return s.transition(ctx, id, []Status{StatusNew}, StatusAvailable)
}

func (s *Service) Reject(ctx context.Context, actor access.Actor, id uuid.UUID) (*Car, error) {
	if !actor.Can(access.CapApproveCars) {
		return nil, ErrForbidden
	}
	return s.transition(ctx, id, []Status{StatusNew}, StatusRejected)
}

// SendToMaintenance withdraws any non-rejected car.
func (s *Service) SendToMaintenance(ctx context.Context, actor access.Actor, id uuid.UUID) (*Car, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	return s.transition(ctx, id, []Status{StatusNew, StatusAvailable, StatusBooked, StatusMaintenance}, StatusMaintenance)
}

func (s *Service) ReturnToService(ctx context.Context, actor access.Actor, id uuid.UUID) (*Car, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	return s.transition(ctx, id, []Status{StatusMaintenance}, StatusAvailable)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, from []Status, to Status) (*Car, error) {
	ok, err := s.repo.TransitionStatus(ctx, id, from, to)
	if err != nil {
		return nil, apperr.Backend(err, "failed to update car status")
	}
	if !ok {
		return nil, ErrNotInState
	}
	s.log.Info(s.log.WithFields(ctx, map[string]any{"car_id": id.String(), "status": string(to)}), "car status changed")
	return s.Get(ctx, id)
}

// AddPhotos appends URIs to a listing owned by the caller. Admins may edit any listing.
func (s *Service) AddPhotos(ctx context.Context, actor access.Actor, id uuid.UUID, uris []string) (*Car, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != actor.UserID && !actor.Can(access.CapApproveCars) {
		return nil, ErrNotCarOwner
	}
	photos := c.Photos.Append(uris...)
	if err := s.repo.UpdatePhotos(ctx, id, photos); err != nil {
		return nil, apperr.Backend(err, "failed to update photos")
	}
	c.Photos = photos
	return c, nil
}

// Quote prices a prospective rental without booking it.
func (s *Service) Quote(ctx context.Context, id uuid.UUID, terms pricing.Terms) (pricing.Quote, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return pricing.Quote{}, err
	}
	in, problems := terms.Parse(c.Pricing)
	if problems != nil {
		return pricing.Quote{}, apperr.New(apperr.CodeValidation, "invalid rental terms").WithDetails(problems)
	}
	return pricing.NewQuote(in), nil
}

// MarkBooked and Release are the follow-up writes issued by the booking workflow.
func (s *Service) MarkBooked(ctx context.Context, id uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, id, StatusBooked)
}

// Release returns a Booked car to Available and leaves any other status alone.
func (s *Service) Release(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.TransitionStatus(ctx, id, []Status{StatusBooked}, StatusAvailable)
	return err
}
