package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bookings/models"
)

func mustParse(t *testing.T, body string) *models.Order {
	t.Helper()
	order, err := ParseOrder([]byte(body))
	require.NoError(t, err)
	return order
}

func TestNormalizeBookingDate(t *testing.T) {
	assert.Equal(t, "2025-01-15", NormalizeBookingDate("2025-01-15T10:00:00Z"))
	assert.Equal(t, "2025-01-15", NormalizeBookingDate("2025-01-15"))
	assert.Equal(t, "2025-01-15", NormalizeBookingDate(" 2025-01-15 "))
	assert.Equal(t, "not-a-date", NormalizeBookingDate("not-a-date"))
}

func TestNormalizeOrderSingleLineItem(t *testing.T) {
	order := mustParse(t, `{"id":"1","line_items":[{"product_id":1,"properties":[{"name":"Booking Date","value":"2025-03-01"}]}]}`)

	for _, mode := range []NormalizerMode{LenientNormalizer, StrictNormalizer} {
		ob, err := NormalizeOrder(order, mode)
		require.NoError(t, err)
		assert.Equal(t, "1", ob.OrderID)
		require.Len(t, ob.Candidates, 1)
		assert.Equal(t, BookingCandidate{
			BookingDate: "2025-03-01",
			BookingType: "event_decor",
			Category:    models.CategoryEventDecor,
			ItemsCount:  1,
		}, ob.Candidates[0])
	}
}

func TestNormalizeOrderGroupsByDateAndType(t *testing.T) {
	order := mustParse(t, `{
		"id": 1001,
		"admin_graphql_api_id": "gid://shopify/Order/1001",
		"line_items": [
			{"product_id": 1, "properties": [{"name": "bookingDate", "value": "2025-01-15T10:00:00Z"}]},
			{"product_id": 2, "properties": [{"name": " BOOKINGDATE ", "value": "2025-01-15"}]},
			{"product_id": 3, "properties": [{"name": "bookingdate", "value": "2025-01-15"}, {"name": "bookingType", "value": "Service"}]},
			{"product_id": 4, "properties": [{"name": "bookingdate", "value": "2025-01-16"}]},
			{"product_id": 5, "properties": [{"name": "bookingdate", "value": "2025-01-15"}]},
			{"product_id": 6, "properties": [{"name": "gift note", "value": "hi"}]},
			{"product_id": 7}
		]
	}`)

	ob, err := NormalizeOrder(order, LenientNormalizer)
	require.NoError(t, err)
	assert.Equal(t, "1001", ob.OrderID)
	assert.Equal(t, "gid://shopify/Order/1001", ob.OrderGID)

	require.Len(t, ob.Candidates, 3)
	assert.Equal(t, BookingCandidate{BookingDate: "2025-01-15", BookingType: "event_decor", Category: models.CategoryEventDecor, ItemsCount: 3}, ob.Candidates[0])
	assert.Equal(t, BookingCandidate{BookingDate: "2025-01-15", BookingType: "Service", Category: models.CategoryService, ItemsCount: 1}, ob.Candidates[1])
	assert.Equal(t, BookingCandidate{BookingDate: "2025-01-16", BookingType: "event_decor", Category: models.CategoryEventDecor, ItemsCount: 1}, ob.Candidates[2])
}

func TestNormalizeOrderGroupingLaw(t *testing.T) {
	item := `{"product_id":1,"properties":[{"name":"bookingdate","value":"2025-06-01"},{"name":"bookingtype","value":"Event Rental"}]}`
	body := `{"id":"9","line_items":[` + item + `,` + item + `,` + item + `,` + item + `]}`

	ob, err := NormalizeOrder(mustParse(t, body), LenientNormalizer)
	require.NoError(t, err)
	require.Len(t, ob.Candidates, 1)
	assert.Equal(t, 4, ob.Candidates[0].ItemsCount)
	assert.Equal(t, models.CategoryEventRental, ob.Candidates[0].Category)
}

func TestNormalizeOrderIsIdempotent(t *testing.T) {
	order := mustParse(t, `{"id":"5","line_items":[
		{"properties":[{"name":"bookingdate","value":"2025-02-02"}]},
		{"properties":[{"name":"bookingdate","value":"2025-02-01"}]},
		{"properties":[{"name":"bookingdate","value":"2025-02-02"}]}
	]}`)

	first, err := NormalizeOrder(order, LenientNormalizer)
	require.NoError(t, err)
	second, err := NormalizeOrder(order, LenientNormalizer)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizeOrderEmptyTypeAndDate(t *testing.T) {
	order := mustParse(t, `{"id":"5","line_items":[
		{"properties":[{"name":"bookingdate","value":""}]},
		{"properties":[{"name":"bookingdate","value":"2025-02-02"},{"name":"bookingtype","value":""}]}
	]}`)

	ob, err := NormalizeOrder(order, LenientNormalizer)
	require.NoError(t, err)
	require.Len(t, ob.Candidates, 1)
	assert.Equal(t, models.DefaultBookingType, ob.Candidates[0].BookingType)
}

func TestNormalizeOrderStrictIgnoresOtherSpellings(t *testing.T) {
	order := mustParse(t, `{"id":"5","line_items":[
		{"properties":[{"name":"bookingdate","value":"2025-02-02"}]},
		{"properties":[{"name":"booking date","value":"2025-02-03"}]},
		{"properties":[{"name":"Booking Date","value":"2025-02-04T09:00:00"},{"name":"bookingtype","value":"Service"}]}
	]}`)

	ob, err := NormalizeOrder(order, StrictNormalizer)
	require.NoError(t, err)
	require.Len(t, ob.Candidates, 1)
	assert.Equal(t, "2025-02-04", ob.Candidates[0].BookingDate)
	assert.Equal(t, models.DefaultBookingType, ob.Candidates[0].BookingType)
}

func TestNormalizeOrderMalformed(t *testing.T) {
	_, err := ParseOrder([]byte(`{"id":`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = NormalizeOrder(mustParse(t, `{"id":"1"}`), LenientNormalizer)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = NormalizeOrder(mustParse(t, `{"id":"1","line_items":null}`), LenientNormalizer)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = NormalizeOrder(mustParse(t, `{"line_items":[]}`), LenientNormalizer)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	ob, err := NormalizeOrder(mustParse(t, `{"id":"1","line_items":[]}`), LenientNormalizer)
	require.NoError(t, err)
	assert.Empty(t, ob.Candidates)
}

func TestCustomerIdentity(t *testing.T) {
	name, email := CustomerIdentity(&models.OrderCustomer{FirstName: "Ada", LastName: "Lovelace", Name: "ignored", Email: "ada@example.com"})
	assert.Equal(t, "Ada Lovelace", name)
	assert.Equal(t, "ada@example.com", email)

	name, email = CustomerIdentity(&models.OrderCustomer{FirstName: "Ada", Name: "Countess"})
	assert.Equal(t, "Countess", name)
	assert.Equal(t, "No Email Provided", email)

	name, email = CustomerIdentity(&models.OrderCustomer{FirstName: "Ada"})
	assert.Equal(t, "Unknown Customer", name)
	assert.Equal(t, "No Email Provided", email)

	name, email = CustomerIdentity(nil)
	assert.Equal(t, "Unknown Customer", name)
	assert.Equal(t, "No Email Provided", email)
}
