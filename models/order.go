package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes JSON strings, numbers and booleans into text. Order and
// customer ids arrive as numbers from the platform and as strings from test
// tooling; both must end up as the same string. Numbers are written in plain
// decimal, so 1e3 and 1000.0 both become "1000".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case map[string]any, []any:
		*f = ""
	case float64:
		*f = FlexString(formatNumber(string(data)))
	default:
		*f = FlexString(data)
	}
	return nil
}

// formatNumber keeps integer literals exact, including ids above 2^53, and
// renders everything else without an exponent.
func formatNumber(lit string) string {
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if n, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return strconv.FormatUint(n, 10)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (f FlexString) String() string { return strings.TrimSpace(string(f)) }

// Order is the subset of an order webhook payload the booking flow reads.
type Order struct {
	ID                FlexString     `json:"id"`
	AdminGraphqlAPIID string         `json:"admin_graphql_api_id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Customer          *OrderCustomer `json:"customer"`
	LineItems         []LineItem     `json:"line_items"`

	CancelReason string `json:"cancel_reason"`
	CancelledAt  string `json:"cancelled_at"`
}

type OrderCustomer struct {
	ID        FlexString `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
}

type LineItem struct {
	ProductID  FlexString         `json:"product_id"`
	Properties []LineItemProperty `json:"properties"`
}

type LineItemProperty struct {
	Name  string     `json:"name"`
	Value FlexString `json:"value"`
}
