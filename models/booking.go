package models

import (
	"strings"
	"time"
)

// DefaultBookingType is used when a line item carries a booking date but no type.
const DefaultBookingType = "event_decor"

// BookingCategory is the calendar a booking belongs to. It is resolved once from
// the free-form booking type when the booking is ingested.
type BookingCategory string

const (
	CategoryEventDecor  BookingCategory = "event_decor"
	CategoryEventRental BookingCategory = "event_rental"
	CategoryService     BookingCategory = "service"
	CategoryOther       BookingCategory = "other"
)

// CategoryFor maps a booking type such as "Service", "Event Rental" or
// "event_decor" onto its calendar.
func CategoryFor(bookingType string) BookingCategory {
	t := strings.ToLower(strings.TrimSpace(bookingType))
	key := strings.NewReplacer(" ", "_", "-", "_").Replace(t)

	switch {
	case strings.Contains(t, "service"):
		return CategoryService
	case key == string(CategoryEventDecor):
		return CategoryEventDecor
	case strings.Contains(t, "event"), strings.Contains(t, "rental"):
		return CategoryEventRental
	default:
		return CategoryOther
	}
}

// ParseBookingCategory accepts the category names used in query strings.
// "event" is kept as an alias of event_rental for the storefront calendar.
func ParseBookingCategory(raw string) (BookingCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "event_decor":
		return CategoryEventDecor, true
	case "event_rental", "event":
		return CategoryEventRental, true
	case "service":
		return CategoryService, true
	case "other":
		return CategoryOther, true
	}
	return "", false
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderID       string          `gorm:"column:order_id;size:64;not null;default:'';index:ux_bookings_order_date_type,unique,priority:1" json:"order_id"`
	OrderGID      *string         `gorm:"column:order_gid;size:128;index" json:"order_gid,omitempty"`
	CustomerID    string          `gorm:"column:customer_id;size:64" json:"customer_id,omitempty"`
	CustomerName  string          `gorm:"column:customer_name;size:255" json:"customer_name"`
	CustomerEmail string          `gorm:"column:customer_email;size:255" json:"customer_email"`
	BookingDate   string          `gorm:"column:booking_date;size:10;not null;index:ux_bookings_order_date_type,unique,priority:2;index:idx_bookings_date" json:"booking_date"`
	BookingType   string          `gorm:"column:booking_type;size:64;not null;index:ux_bookings_order_date_type,unique,priority:3" json:"booking_type"`
	Category      BookingCategory `gorm:"column:category;size:32;index" json:"category"`
	ItemsCount    int             `gorm:"column:items_count;default:1" json:"items_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
