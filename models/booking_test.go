package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFor(t *testing.T) {
	cases := map[string]BookingCategory{
		"event_decor":      CategoryEventDecor,
		"Event Decor":      CategoryEventDecor,
		"event-decor":      CategoryEventDecor,
		"Service":          CategoryService,
		"Cleaning service": CategoryService,
		"Event Rental":     CategoryEventRental,
		"Event":            CategoryEventRental,
		"Rental":           CategoryEventRental,
		"":                 CategoryOther,
		"workshop":         CategoryOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, CategoryFor(in), "booking type %q", in)
	}
}

func TestParseBookingCategory(t *testing.T) {
	c, ok := ParseBookingCategory("event")
	require.True(t, ok)
	assert.Equal(t, CategoryEventRental, c)

	c, ok = ParseBookingCategory(" Service ")
	require.True(t, ok)
	assert.Equal(t, CategoryService, c)

	_, ok = ParseBookingCategory("party")
	assert.False(t, ok)
}

func TestFlexStringDecodesNumbersAndStrings(t *testing.T) {
	var order Order
	body := `{"id":820982911946154508,"customer":{"id":"67890"},"line_items":[{"product_id":1,"properties":[{"name":"n","value":null}]}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &order))

	assert.Equal(t, "820982911946154508", order.ID.String())
	assert.Equal(t, "67890", order.Customer.ID.String())
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, "1", order.LineItems[0].ProductID.String())
	assert.Equal(t, "", order.LineItems[0].Properties[0].Value.String())
}

func TestFlexStringRendersNumbersWithoutExponent(t *testing.T) {
	cases := map[string]string{
		`1e3`:                  "1000",
		`1000.0`:               "1000",
		`12.5`:                 "12.5",
		`-42`:                  "-42",
		`18446744073709551615`: "18446744073709551615",
		`true`:                 "true",
	}
	for in, want := range cases {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, f.String(), in)
	}
}
