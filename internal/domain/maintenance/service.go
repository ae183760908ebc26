package maintenance

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"carrental/internal/domain/access"
	"carrental/internal/domain/car"
	"carrental/internal/domain/pricing"
	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/logger"
	"carrental/internal/pkg/metrics"
	"carrental/internal/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Options struct {
	Strict   bool
	Notifier Notifier
	Staff    StaffDirectory
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
}

type Service struct {
	repo     Repository
	cars     CarLookup
	notifier Notifier
	staff    StaffDirectory
	strict   bool
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	serial   func() int
}

func NewService(repo Repository, cars CarLookup, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		cars:     cars,
		notifier: opts.Notifier,
		staff:    opts.Staff,
		strict:   opts.Strict,
		log:      log,
		metrics:  opts.Metrics,
		now:      time.Now,
		serial:   func() int { return rand.IntN(10000) },
	}
}

// Schedule books future work on a car and tells the assigned staff member.
func (s *Service) Schedule(ctx context.Context, actor access.Actor, req ScheduleRequest) (*Record, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	problems := map[string]string{}
	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		problems["car_id"] = "must be a uuid"
	}
	typ := Type(req.Type)
	if !typ.IsValid() {
		problems["type"] = "must be Regular, Repair or Inspection"
	}
	date, err := pricing.ParseDate(req.Date)
	if err != nil {
		problems["date"] = err.Error()
	}
	var next *time.Time
	if req.NextServiceDate != "" {
		if t, err := pricing.ParseDate(req.NextServiceDate); err != nil {
			problems["next_service_date"] = err.Error()
		} else {
			next = &t
		}
	}
	var assigned *uuid.UUID
	if req.AssignedStaffID != "" {
		if id, err := uuid.Parse(req.AssignedStaffID); err != nil {
			problems["assigned_staff_id"] = "must be a uuid"
		} else {
			assigned = &id
		}
	}
	if req.EstimatedCost != nil && req.EstimatedCost.IsNegative() {
		problems["estimated_cost"] = "must not be negative"
	}
	if len(problems) > 0 {
		return nil, ErrInvalidRecord.WithDetails(problems)
	}

	if assigned != nil {
		if err := s.checkAssignee(ctx, *assigned); err != nil {
			return nil, err
		}
	}

	c, err := s.cars.Get(ctx, carID)
	if err != nil {
		return nil, err
	}
	rec := &Record{
		CarID:           carID,
		Type:            typ,
		Description:     strings.TrimSpace(req.Description),
		Date:            date,
		Status:          StatusScheduled,
		PerformedBy:     assigned,
		NextServiceDate: next,
	}
	if req.EstimatedCost != nil {
		rec.Cost = decimal.NewNullDecimal(*req.EstimatedCost)
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, apperr.Backend(err, "failed to schedule maintenance")
	}
	ctx = s.log.WithFields(ctx, map[string]any{"maintenance_id": rec.ID.String(), "car_id": carID.String()})
	s.log.Info(ctx, "maintenance scheduled")

	if assigned != nil {
		s.notify(ctx, *assigned, rec.ID, fmt.Sprintf("%s service scheduled for %s %s on %s",
			typ, c.Make, c.Model, date.Format(pricing.DateLayout)))
	}
	return rec, nil
}

// LogService records work. With a nil id it creates a record that is
// Completed immediately, dated now and performed by the actor unless the
// request names someone else.
func (s *Service) LogService(ctx context.Context, actor access.Actor, id *uuid.UUID, req LogServiceRequest) (*Record, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	problems := map[string]string{}
	var performer *uuid.UUID
	if req.PerformedBy != "" {
		if p, err := uuid.Parse(req.PerformedBy); err != nil {
			problems["performed_by"] = "must be a uuid"
		} else {
			performer = &p
		}
	}
	if req.Cost != nil && req.Cost.IsNegative() {
		problems["cost"] = "must not be negative"
	}
	if id == nil {
		return s.logNew(ctx, actor, req, performer, problems)
	}

	status := Status(req.Status)
	if status != StatusInProgress && status != StatusCompleted {
		problems["status"] = "must be InProgress or Completed"
	}
	if len(problems) > 0 {
		return nil, ErrInvalidRecord.WithDetails(problems)
	}

	rec, err := s.load(ctx, *id)
	if err != nil {
		return nil, err
	}
	u := LogUpdate{Status: status, Cost: req.Cost, Notes: req.Notes, PerformedBy: performer}
	if len(req.Photos) > 0 {
		u.Photos = rec.Photos.Append(req.Photos...)
	}
	var from []Status
	if s.strict {
		from = sourcesOf(status)
	}
	ok, err := s.repo.ApplyLog(ctx, *id, u, from...)
	if err != nil {
		return nil, apperr.Backend(err, "failed to log service")
	}
	if !ok {
		current, err := s.load(ctx, *id)
		if err != nil {
			return nil, err
		}
		s.metrics.IncTransitionRejected("maintenance")
		return nil, ErrInvalidTransition.WithDetails(map[string]string{"from": string(current.Status), "to": string(status)})
	}

	updated, err := s.load(ctx, *id)
	if err != nil {
		return nil, err
	}
	ctx = s.log.WithFields(ctx, map[string]any{"maintenance_id": id.String(), "status": string(status)})
	s.log.Info(ctx, "service logged")
	if performer != nil && *performer != actor.UserID {
		s.notify(ctx, *performer, updated.ID, fmt.Sprintf("%s service marked %s", updated.Type, status))
	}
	return updated, nil
}

func (s *Service) logNew(ctx context.Context, actor access.Actor, req LogServiceRequest, performer *uuid.UUID, problems map[string]string) (*Record, error) {
	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		problems["car_id"] = "required"
	}
	typ := Type(req.Type)
	if !typ.IsValid() {
		problems["type"] = "must be Regular, Repair or Inspection"
	}
	if strings.TrimSpace(req.Description) == "" {
		problems["description"] = "required"
	}
	if len(problems) > 0 {
		return nil, ErrInvalidRecord.WithDetails(problems)
	}
	if _, err := s.cars.Get(ctx, carID); err != nil {
		return nil, err
	}

	by := actor.UserID
	if performer != nil {
		by = *performer
	}
	rec := &Record{
		CarID:       carID,
		Type:        typ,
		Description: strings.TrimSpace(req.Description),
		Date:        s.now().UTC(),
		Status:      StatusCompleted,
		PerformedBy: &by,
		Photos:      utils.Photos{}.Append(req.Photos...),
	}
	if req.Cost != nil {
		rec.Cost = decimal.NewNullDecimal(*req.Cost)
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, apperr.Backend(err, "failed to log service")
	}
	ctx = s.log.WithFields(ctx, map[string]any{"maintenance_id": rec.ID.String(), "car_id": carID.String()})
	s.log.Info(ctx, "service logged")
	if by != actor.UserID {
		s.notify(ctx, by, rec.ID, fmt.Sprintf("%s service logged on your behalf", typ))
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, actor access.Actor, q ListQuery) ([]Record, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	f := Filter{Type: Type(q.Type), Status: Status(q.Status)}
	problems := map[string]string{}
	if q.CarID != "" {
		id, err := uuid.Parse(q.CarID)
		if err != nil {
			problems["car_id"] = "must be a uuid"
		}
		f.CarID = id
	}
	if f.Type != "" && !f.Type.IsValid() {
		problems["type"] = "unknown maintenance type"
	}
	if f.Status != "" && !f.Status.IsValid() {
		problems["status"] = "unknown maintenance status"
	}
	if len(problems) > 0 {
		return nil, apperr.New(apperr.CodeValidation, "invalid filter").WithDetails(problems)
	}
	return s.wrapList(s.repo.List(ctx, f))
}

// ListForOwner is the service history of the actor's own cars.
func (s *Service) ListForOwner(ctx context.Context, actor access.Actor) ([]Record, error) {
	if !actor.Can(access.CapOwnerPortal) {
		return nil, ErrForbidden
	}
	return s.wrapList(s.repo.ListByCarOwner(ctx, actor.UserID))
}

func (s *Service) ListUninvoiced(ctx context.Context, actor access.Actor) ([]Record, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	return s.wrapList(s.repo.ListUninvoiced(ctx))
}

func (s *Service) wrapList(out []Record, err error) ([]Record, error) {
	if err != nil {
		return nil, apperr.Backend(err, "failed to list maintenance records")
	}
	return out, nil
}

// GenerateInvoice groups completed, uninvoiced records under one invoice
// number. The summed cost is split evenly and the same share is written to
// every member, so individual costs are not visible on the invoice. Each
// member is updated on its own; the result counts the outcomes.
func (s *Service) GenerateInvoice(ctx context.Context, actor access.Actor, req GenerateInvoiceRequest) (*InvoiceResult, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	problems := map[string]string{}
	ids := make([]uuid.UUID, 0, len(req.MaintenanceIDs))
	seen := make(map[uuid.UUID]bool, len(req.MaintenanceIDs))
	for _, raw := range req.MaintenanceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			problems["maintenance_ids"] = "must be uuids"
			continue
		}
		if seen[id] {
			problems["maintenance_ids"] = "must not repeat"
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 && problems["maintenance_ids"] == "" {
		problems["maintenance_ids"] = "at least one record is required"
	}
	invoiceDate, err := pricing.ParseDate(req.InvoiceDate)
	if err != nil {
		problems["invoice_date"] = err.Error()
	}
	dueDate, err := pricing.ParseDate(req.DueDate)
	if err != nil {
		problems["due_date"] = err.Error()
	}
	if len(problems) > 0 {
		return nil, ErrInvalidInvoice.WithDetails(problems)
	}

	records, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Backend(err, "failed to load maintenance records")
	}
	byID := make(map[uuid.UUID]Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	var missing, blocked []string
	total := decimal.Zero
	for _, id := range ids {
		rec, ok := byID[id]
		switch {
		case !ok:
			missing = append(missing, id.String())
		case !rec.Invoiceable():
			blocked = append(blocked, id.String())
		case rec.Cost.Valid:
			total = total.Add(rec.Cost.Decimal)
		}
	}
	if len(missing) > 0 {
		return nil, ErrRecordNotFound.WithDetails(map[string][]string{"missing": missing})
	}
	if len(blocked) > 0 {
		return nil, ErrNotInvoiceable.WithDetails(map[string][]string{"ids": blocked})
	}

	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		number = s.newInvoiceNumber()
	}
	each := total.Div(decimal.NewFromInt(int64(len(ids)))).Round(2)
	fields := InvoiceFields{
		Number: number,
		Date:   invoiceDate,
		Status: InvoicePending,
		Amount: each,
		Details: InvoiceDetails{
			DueDate:        dueDate,
			Notes:          req.Notes,
			MaintenanceIDs: ids,
		},
	}

	res := &InvoiceResult{InvoiceNumber: number, Total: total, AmountEach: each}
	shares := splitShares(total, each, len(ids))
	for i, id := range ids {
		fields.Amount = shares[i]
		res.Batch.record(id, s.repo.ApplyInvoice(ctx, id, fields))
	}
	s.finishBatch(ctx, "generate_invoice", number, res.Batch)
	return res, nil
}

// splitShares gives every member the rounded share and the last one the
// rounding remainder, so the shares always add up to total.
func splitShares(total, each decimal.Decimal, n int) []decimal.Decimal {
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = each
	}
	if n > 0 {
		rest := total.Sub(each.Mul(decimal.NewFromInt(int64(n - 1))))
		shares[n-1] = rest
	}
	return shares
}

// MarkInvoicePaid flips every member record of an invoice to Paid, one
// record at a time.
func (s *Service) MarkInvoicePaid(ctx context.Context, actor access.Actor, number string) (*PaymentResult, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	members, err := s.repo.ListByInvoiceNumber(ctx, number)
	if err != nil {
		return nil, apperr.Backend(err, "failed to load invoice")
	}
	if len(members) == 0 {
		return nil, ErrInvoiceNotFound
	}
	res := &PaymentResult{InvoiceNumber: number}
	for _, rec := range members {
		res.Batch.record(rec.ID, s.repo.SetInvoiceStatus(ctx, rec.ID, InvoicePaid))
	}
	s.finishBatch(ctx, "mark_invoice_paid", number, res.Batch)
	return res, nil
}

// ListInvoices groups invoiced records by number, newest first.
func (s *Service) ListInvoices(ctx context.Context, actor access.Actor, search string) ([]Invoice, error) {
	if !actor.Can(access.CapManageMaintenance) {
		return nil, ErrForbidden
	}
	records, err := s.repo.ListInvoiced(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, apperr.Backend(err, "failed to list invoices")
	}
	return groupInvoices(records), nil
}

func groupInvoices(records []Record) []Invoice {
	var out []Invoice
	index := map[string]int{}
	for _, rec := range records {
		if rec.InvoiceNumber == nil {
			continue
		}
		status := InvoicePending
		if rec.InvoiceStatus != nil {
			status = *rec.InvoiceStatus
		}
		i, ok := index[*rec.InvoiceNumber]
		if !ok {
			inv := Invoice{
				InvoiceNumber: *rec.InvoiceNumber,
				InvoiceDate:   rec.InvoiceDate,
				Status:        status,
				Amount:        decimal.Zero,
			}
			if rec.InvoiceDetails != nil && !rec.InvoiceDetails.DueDate.IsZero() {
				due := rec.InvoiceDetails.DueDate
				inv.DueDate = &due
			}
			out = append(out, inv)
			i = len(out) - 1
			index[*rec.InvoiceNumber] = i
		}
		inv := &out[i]
		if inv.Status != status {
			inv.Status = InvoiceMixed
		}
		amount := rec.InvoiceAmount.Decimal
		inv.Amount = inv.Amount.Add(amount)
		inv.Items = append(inv.Items, InvoiceItem{
			MaintenanceID: rec.ID,
			CarID:         rec.CarID,
			Type:          rec.Type,
			Description:   rec.Description,
			Amount:        amount,
		})
	}
	return out
}

func (s *Service) finishBatch(ctx context.Context, op, number string, b BatchResult) {
	s.metrics.ObserveBatch(op, b.Succeeded, b.Failed)
	ctx = s.log.WithFields(ctx, map[string]any{
		"invoice_number": number,
		"attempted":      b.Attempted,
		"succeeded":      b.Succeeded,
		"failed":         b.Failed,
	})
	if b.Failed > 0 {
		s.log.Warn(ctx, op+" left the invoice partially updated", errors.New(b.Failures[0].Error))
		return
	}
	s.log.Info(ctx, op+" completed")
}

// newInvoiceNumber builds INV-YYYYMM-NNNN. Collisions are not checked.
func (s *Service) newInvoiceNumber() string {
	now := s.now()
	return fmt.Sprintf("INV-%04d%02d-%04d", now.Year(), int(now.Month()), s.serial()%10000)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, apperr.Backend(err, "failed to load maintenance record")
	}
	return rec, nil
}

// checkAssignee rejects assignees whose role cannot receive maintenance work.
// Without a directory every assignee is accepted.
func (s *Service) checkAssignee(ctx context.Context, id uuid.UUID) error {
	if s.staff == nil {
		return nil
	}
	role, err := s.staff.ResolveRole(ctx, id)
	if err != nil {
		switch apperr.CodeOf(err) {
		case apperr.CodeNotFound, apperr.CodeProfileNotFound:
			return ErrInvalidRecord.WithDetails(map[string]string{"assigned_staff_id": "unknown staff member"})
		}
		return err
	}
	if !access.Authorize(role, access.CapReceiveAssignments) {
		return ErrInvalidRecord.WithDetails(map[string]string{"assigned_staff_id": "cannot receive assignments"})
	}
	return nil
}

func (s *Service) notify(ctx context.Context, recipient, recordID uuid.UUID, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, recipient, recordID, message); err != nil {
		s.log.Warn(s.log.WithField(ctx, "recipient_id", recipient.String()), "staff notification failed", err)
	}
}

var _ CarLookup = (*car.Service)(nil)
