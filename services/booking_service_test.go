package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-bookings/models"
	"storefront-bookings/repository"
)

var errStorageDown = errors.New("storage unavailable")

// flakyStore fails inserts for a single booking date.
type flakyStore struct {
	*repository.MemoryStore
	failDate string
}

func (f *flakyStore) InsertIfAbsent(ctx context.Context, b *models.Booking) (bool, error) {
	if b.BookingDate == f.failDate {
		return false, errStorageDown
	}
	return f.MemoryStore.InsertIfAbsent(ctx, b)
}

func orderBookings(orderID, gid string, dates ...string) OrderBookings {
	ob := OrderBookings{
		OrderID:       orderID,
		OrderGID:      gid,
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
	}
	for _, d := range dates {
		ob.Candidates = append(ob.Candidates, BookingCandidate{
			BookingDate: d,
			BookingType: models.DefaultBookingType,
			Category:    models.CategoryEventDecor,
			ItemsCount:  1,
		})
	}
	return ob
}

func TestReconcileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewBookingService(store, zap.NewNop(), 4)
	ob := orderBookings("1", "", "2025-03-01")

	first := svc.Reconcile(ctx, ob)
	require.Len(t, first, 1)
	assert.Equal(t, OutcomeCreated, first[0].Status)
	require.NotNil(t, first[0].Booking)
	assert.Equal(t, "Ada Lovelace", first[0].Booking.CustomerName)

	second := svc.Reconcile(ctx, ob)
	require.Len(t, second, 1)
	assert.Equal(t, OutcomeExists, second[0].Status)
	assert.Nil(t, second[0].Booking)

	rows, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReconcileContinuesAfterCandidateFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: repository.NewMemoryStore(), failDate: "2025-03-02"}
	svc := NewBookingService(store, zap.NewNop(), 2)

	outcomes := svc.Reconcile(ctx, orderBookings("1", "", "2025-03-01", "2025-03-02", "2025-03-03"))
	require.Len(t, outcomes, 3)

	assert.Equal(t, OutcomeCreated, outcomes[0].Status)
	assert.Equal(t, OutcomeFailed, outcomes[1].Status)
	assert.Equal(t, OutcomeCreated, outcomes[2].Status)

	var recErr *ReconciliationError
	require.ErrorAs(t, outcomes[1].Err, &recErr)
	assert.Equal(t, "1", recErr.OrderID)
	assert.Equal(t, "2025-03-02", recErr.BookingDate)
	assert.Equal(t, models.DefaultBookingType, recErr.BookingType)
	assert.ErrorIs(t, outcomes[1].Err, errStorageDown)

	rows, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReconcileStoresOrderGID(t *testing.T) {
	ctx := context.Background()
	svc := NewBookingService(repository.NewMemoryStore(), zap.NewNop(), 1)

	outcomes := svc.Reconcile(ctx, orderBookings("A", "gid://A", "2025-01-01"))
	require.Len(t, outcomes, 1)
	require.NotNil(t, outcomes[0].Booking.OrderGID)
	assert.Equal(t, "gid://A", *outcomes[0].Booking.OrderGID)
}

func TestCancelByGIDThenByOrderID(t *testing.T) {
	ctx := context.Background()
	svc := NewBookingService(repository.NewMemoryStore(), zap.NewNop(), 4)

	svc.Reconcile(ctx, orderBookings("A", "gid://A", "2025-01-01", "2025-01-02"))
	svc.Reconcile(ctx, orderBookings("B", "", "2025-01-01"))

	deleted, err := svc.Cancel(ctx, "A-local-id-not-used", "gid://A")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	rows, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].OrderID)

	deleted, err = svc.Cancel(ctx, "B", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	deleted, err = svc.Cancel(ctx, "B", "")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	rows, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateManual(t *testing.T) {
	ctx := context.Background()
	svc := NewBookingService(repository.NewMemoryStore(), zap.NewNop(), 1)

	_, err := svc.CreateManual(ctx, "", "42")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.CreateManual(ctx, "2025-07-04", " ")
	assert.ErrorIs(t, err, ErrMissingFields)

	b, err := svc.CreateManual(ctx, "2025-07-04", "42")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-04", b.BookingDate)
	assert.Equal(t, models.DefaultBookingType, b.BookingType)
	assert.Equal(t, "42", b.CustomerID)
	assert.NotZero(t, b.ID)

	_, err = svc.CreateManual(ctx, "2025-07-04T00:00:00Z", "43")
	assert.ErrorIs(t, err, ErrBookingExists)
}

func TestCreateManualRejectsDateBookedByOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewBookingService(repository.NewMemoryStore(), zap.NewNop(), 1)
	svc.Reconcile(ctx, orderBookings("1", "", "2025-08-08"))

	_, err := svc.CreateManual(ctx, "2025-08-08", "7")
	assert.ErrorIs(t, err, ErrBookingExists)
}

func TestListAndBookedDates(t *testing.T) {
	ctx := context.Background()
	svc := NewBookingService(repository.NewMemoryStore(), zap.NewNop(), 1)

	ob := orderBookings("1", "", "2025-09-02", "2025-09-01")
	ob.Candidates = append(ob.Candidates, BookingCandidate{BookingDate: "2025-09-03", BookingType: "Service", Category: models.CategoryService, ItemsCount: 1})
	svc.Reconcile(ctx, ob)

	rows, err := svc.List(ctx, "2025-09-02")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	dates, err := svc.BookedDates(ctx, models.CategoryEventDecor)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-09-01", "2025-09-02"}, dates)

	dates, err = svc.BookedDates(ctx, models.CategoryService)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-09-03"}, dates)
}
