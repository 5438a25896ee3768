package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-bookings/models"
)

type BookingRepository struct{ db *gorm.DB }

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// InsertIfAbsent inserts b unless a row with the same order id, booking date and
// booking type exists. The check happens in the database through the
// ux_bookings_order_date_type index, so concurrent deliveries cannot both insert.
func (r *BookingRepository) InsertIfAbsent(ctx context.Context, b *models.Booking) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b)
	if res.Error != nil {
		if IsDuplicateKey(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByOrder removes every booking of an order, matched by gid when present.
func (r *BookingRepository) DeleteByOrder(ctx context.Context, orderID, orderGID string) (int64, error) {
	orderID = strings.TrimSpace(orderID)
	orderGID = strings.TrimSpace(orderGID)

	q := r.db.WithContext(ctx)
	switch {
	case orderGID != "":
		q = q.Where("order_gid = ?", orderGID)
	case orderID != "":
		q = q.Where("order_id = ?", orderID)
	default:
		return 0, ErrMissingOrderKey
	}

	res := q.Delete(&models.Booking{})
	return res.RowsAffected, res.Error
}

func (r *BookingRepository) ExistsForDate(ctx context.Context, date, bookingType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("booking_date = ? AND booking_type = ?", date, bookingType).
		Count(&count).Error
	return count > 0, err
}

// List returns bookings ordered by date, optionally restricted to one date.
func (r *BookingRepository) List(ctx context.Context, date string) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Order("booking_date ASC, id ASC")
	if date != "" {
		q = q.Where("booking_date = ?", date)
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// BookedDates returns the distinct booked dates of a calendar; an empty category
// means every calendar.
func (r *BookingRepository) BookedDates(ctx context.Context, category models.BookingCategory) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{}).Distinct("booking_date")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var dates []string
	if err := q.Order("booking_date ASC").Pluck("booking_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}
