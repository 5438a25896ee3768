package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront-bookings/models"
)

// BookingStore is the persistence the reconciler needs. InsertIfAbsent must be
// atomic with respect to (order id, booking date, booking type).
type BookingStore interface {
	InsertIfAbsent(ctx context.Context, b *models.Booking) (bool, error)
	DeleteByOrder(ctx context.Context, orderID, orderGID string) (int64, error)
	ExistsForDate(ctx context.Context, date, bookingType string) (bool, error)
	List(ctx context.Context, date string) ([]models.Booking, error)
	BookedDates(ctx context.Context, category models.BookingCategory) ([]string, error)
}

type OutcomeStatus string

const (
	OutcomeCreated OutcomeStatus = "created"
	OutcomeExists  OutcomeStatus = "exists"
	OutcomeFailed  OutcomeStatus = "failed"
)

// ReconcileOutcome is the result for one candidate. Err is a
// *ReconciliationError when Status is OutcomeFailed.
type ReconcileOutcome struct {
	Candidate BookingCandidate
	Status    OutcomeStatus
	Booking   *models.Booking
	Err       error
}

// BookingService owns every write to the bookings table.
type BookingService struct {
	store       BookingStore
	log         *zap.Logger
	concurrency int
}

func NewBookingService(store BookingStore, log *zap.Logger, concurrency int) *BookingService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BookingService{store: store, log: log, concurrency: concurrency}
}

// Reconcile makes sure one booking row exists per candidate. Candidates are
// independent: they are stored concurrently and a failure of one does not stop
// the others. Outcomes are returned in candidate order.
func (s *BookingService) Reconcile(ctx context.Context, ob OrderBookings) []ReconcileOutcome {
	outcomes := make([]ReconcileOutcome, len(ob.Candidates))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, cand := range ob.Candidates {
		g.Go(func() error {
			outcomes[i] = s.reconcileOne(ctx, ob, cand)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *BookingService) reconcileOne(ctx context.Context, ob OrderBookings, cand BookingCandidate) ReconcileOutcome {
	fields := []zap.Field{
		zap.String("order_id", ob.OrderID),
		zap.String("booking_date", cand.BookingDate),
		zap.String("booking_type", cand.BookingType),
		zap.Int("items_count", cand.ItemsCount),
	}

	b := &models.Booking{
		OrderID:       ob.OrderID,
		CustomerID:    ob.CustomerID,
		CustomerName:  ob.CustomerName,
		CustomerEmail: ob.CustomerEmail,
		BookingDate:   cand.BookingDate,
		BookingType:   cand.BookingType,
		Category:      cand.Category,
		ItemsCount:    cand.ItemsCount,
	}
	if ob.OrderGID != "" {
		gid := ob.OrderGID
		b.OrderGID = &gid
	}

	created, err := s.store.InsertIfAbsent(ctx, b)
	if err != nil {
		s.log.Error("booking reconciliation failed", append(fields, zap.Error(err))...)
		return ReconcileOutcome{
			Candidate: cand,
			Status:    OutcomeFailed,
			Err: &ReconciliationError{
				OrderID:     ob.OrderID,
				BookingDate: cand.BookingDate,
				BookingType: cand.BookingType,
				Err:         err,
			},
		}
	}
	if !created {
		s.log.Info("booking already exists", fields...)
		return ReconcileOutcome{Candidate: cand, Status: OutcomeExists}
	}

	s.log.Info("booking created", append(fields, zap.Uint("booking_id", b.ID))...)
	return ReconcileOutcome{Candidate: cand, Status: OutcomeCreated, Booking: b}
}

// Cancel deletes all bookings of an order, matched by gid when one is given.
// Deleting nothing is not an error.
func (s *BookingService) Cancel(ctx context.Context, orderID, orderGID string) (int64, error) {
	deleted, err := s.store.DeleteByOrder(ctx, orderID, orderGID)
	if err != nil {
		return 0, err
	}
	s.log.Info("bookings cancelled",
		zap.String("order_id", orderID),
		zap.String("order_gid", orderGID),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

// CreateManual books a date for the default booking type outside of any order.
// Only one such booking may exist per date.
func (s *BookingService) CreateManual(ctx context.Context, date, customerID string) (*models.Booking, error) {
	date = NormalizeBookingDate(date)
	customerID = strings.TrimSpace(customerID)
	if date == "" || customerID == "" {
		return nil, ErrMissingFields
	}

	exists, err := s.store.ExistsForDate(ctx, date, models.DefaultBookingType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBookingExists
	}

	b := &models.Booking{
		CustomerID:  customerID,
		BookingDate: date,
		BookingType: models.DefaultBookingType,
		Category:    models.CategoryFor(models.DefaultBookingType),
		ItemsCount:  1,
	}
	created, err := s.store.InsertIfAbsent(ctx, b)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrBookingExists
	}

	s.log.Info("manual booking created", zap.String("booking_date", date), zap.String("customer_id", customerID))
	return b, nil
}

func (s *BookingService) List(ctx context.Context, date string) ([]models.Booking, error) {
	return s.store.List(ctx, strings.TrimSpace(date))
}

func (s *BookingService) BookedDates(ctx context.Context, category models.BookingCategory) ([]string, error) {
	return s.store.BookedDates(ctx, category)
}
