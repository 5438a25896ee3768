package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"storefront-bookings/models"
)

// NormalizerMode selects how booking properties are recognised on line items.
type NormalizerMode int

const (
	// LenientNormalizer matches "bookingdate"/"bookingtype" property names
	// ignoring case, spaces, underscores and hyphens, so "Booking Date" and
	// "booking_date" are both recognised.
	LenientNormalizer NormalizerMode = iota
	// StrictNormalizer only accepts a property named exactly "Booking Date" and
	// books every date as event_decor.
	StrictNormalizer
)

const (
	strictDatePropertyName = "Booking Date"
	datePropertyKey        = "bookingdate"
	typePropertyKey        = "bookingtype"

	unknownCustomerName = "Unknown Customer"
	noEmailProvided     = "No Email Provided"
)

// BookingCandidate is one (date, type) group found in an order.
type BookingCandidate struct {
	BookingDate string                 `json:"booking_date"`
	BookingType string                 `json:"booking_type"`
	Category    models.BookingCategory `json:"category"`
	ItemsCount  int                    `json:"items_count"`
}

// OrderBookings is everything the reconciler needs from one order payload.
type OrderBookings struct {
	OrderID       string
	OrderGID      string
	OrderName     string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	Candidates    []BookingCandidate
}

// ParseOrder decodes a webhook body. The signature must already be verified
// against the same bytes.
func ParseOrder(body []byte) (*models.Order, error) {
	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &order, nil
}

// NormalizeBookingDate drops a time component such as "T10:00:00Z". The date
// itself is not validated.
func NormalizeBookingDate(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.Index(value, "T"); i >= 0 {
		return value[:i]
	}
	return value
}

// CustomerIdentity resolves the display name and email stored on bookings.
func CustomerIdentity(c *models.OrderCustomer) (name, email string) {
	name, email = unknownCustomerName, noEmailProvided
	if c == nil {
		return name, email
	}

	first, last := strings.TrimSpace(c.FirstName), strings.TrimSpace(c.LastName)
	switch {
	case first != "" && last != "":
		name = first + " " + last
	case strings.TrimSpace(c.Name) != "":
		name = strings.TrimSpace(c.Name)
	}
	if e := strings.TrimSpace(c.Email); e != "" {
		email = e
	}
	return name, email
}

// NormalizeOrder extracts the booking candidates of an order. It has no state:
// the same order always yields the same candidates in the same order.
func NormalizeOrder(order *models.Order, mode NormalizerMode) (OrderBookings, error) {
	if order == nil || order.LineItems == nil {
		return OrderBookings{}, fmt.Errorf("%w: line_items missing", ErrMalformedPayload)
	}
	orderID := order.ID.String()
	if orderID == "" {
		return OrderBookings{}, fmt.Errorf("%w: order id missing", ErrMalformedPayload)
	}

	name, email := CustomerIdentity(order.Customer)
	out := OrderBookings{
		OrderID:       orderID,
		OrderGID:      strings.TrimSpace(order.AdminGraphqlAPIID),
		OrderName:     order.Name,
		CustomerName:  name,
		CustomerEmail: email,
	}
	if order.Customer != nil {
		out.CustomerID = order.Customer.ID.String()
	}

	type groupKey struct{ date, typ string }
	index := map[groupKey]int{}

	for _, item := range order.LineItems {
		date, typ, ok := bookingProperties(item.Properties, mode)
		if !ok {
			continue
		}
		key := groupKey{date, typ}
		if i, seen := index[key]; seen {
			out.Candidates[i].ItemsCount++
			continue
		}
		index[key] = len(out.Candidates)
		out.Candidates = append(out.Candidates, BookingCandidate{
			BookingDate: date,
			BookingType: typ,
			Category:    models.CategoryFor(typ),
			ItemsCount:  1,
		})
	}

	return out, nil
}

func bookingProperties(props []models.LineItemProperty, mode NormalizerMode) (date, typ string, ok bool) {
	if mode == StrictNormalizer {
		for _, p := range props {
			if p.Name == strictDatePropertyName && p.Value.String() != "" {
				return NormalizeBookingDate(p.Value.String()), models.DefaultBookingType, true
			}
		}
		return "", "", false
	}

	var rawDate, rawType string
	var dateFound, typeFound bool
	for _, p := range props {
		switch propertyKey(p.Name) {
		case datePropertyKey:
			if !dateFound {
				rawDate, dateFound = p.Value.String(), true
			}
		case typePropertyKey:
			if !typeFound {
				rawType, typeFound = p.Value.String(), true
			}
		}
	}
	if rawDate == "" {
		return "", "", false
	}
	if rawType == "" {
		rawType = models.DefaultBookingType
	}
	return NormalizeBookingDate(rawDate), rawType, true
}

var propertyKeyReplacer = strings.NewReplacer(" ", "", "_", "", "-", "")

func propertyKey(name string) string {
	return propertyKeyReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}
