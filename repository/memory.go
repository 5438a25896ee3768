package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront-bookings/models"
)

// MemoryStore keeps bookings and deliveries in process memory. It backs
// DB_DRIVER=memory for local runs and the handler tests, and enforces the same
// uniqueness rules as the SQL schema.
type MemoryStore struct {
	mu         sync.Mutex
	nextID     uint
	bookings   []models.Booking
	deliveries map[string]models.WebhookDelivery
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{deliveries: map[string]models.WebhookDelivery{}}
}

func (m *MemoryStore) InsertIfAbsent(_ context.Context, b *models.Booking) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.bookings {
		if existing.OrderID == b.OrderID && existing.BookingDate == b.BookingDate && existing.BookingType == b.BookingType {
			return false, nil
		}
	}

	m.nextID++
	now := time.Now().UTC()
	b.ID = m.nextID
	b.CreatedAt = now
	b.UpdatedAt = now
	m.bookings = append(m.bookings, *b)
	return true, nil
}

func (m *MemoryStore) DeleteByOrder(_ context.Context, orderID, orderGID string) (int64, error) {
	orderID = strings.TrimSpace(orderID)
	orderGID = strings.TrimSpace(orderGID)
	if orderID == "" && orderGID == "" {
		return 0, ErrMissingOrderKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.bookings[:0]
	var deleted int64
	for _, b := range m.bookings {
		var match bool
		if orderGID != "" {
			match = b.OrderGID != nil && *b.OrderGID == orderGID
		} else {
			match = b.OrderID == orderID
		}
		if match {
			deleted++
			continue
		}
		kept = append(kept, b)
	}
	m.bookings = kept
	return deleted, nil
}

func (m *MemoryStore) ExistsForDate(_ context.Context, date, bookingType string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.BookingDate == date && b.BookingType == bookingType {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) List(_ context.Context, date string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		if date == "" || b.BookingDate == date {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BookingDate != out[j].BookingDate {
			return out[i].BookingDate < out[j].BookingDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) BookedDates(_ context.Context, category models.BookingCategory) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := map[string]bool{}
	dates := []string{}
	for _, b := range m.bookings {
		if category != "" && b.Category != category {
			continue
		}
		if !seen[b.BookingDate] {
			seen[b.BookingDate] = true
			dates = append(dates, b.BookingDate)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (m *MemoryStore) Processed(_ context.Context, webhookID string) (bool, error) {
	webhookID = strings.TrimSpace(webhookID)
	if webhookID == "" {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.deliveries[webhookID]
	return ok, nil
}

func (m *MemoryStore) Record(_ context.Context, d *models.WebhookDelivery) error {
	webhookID := strings.TrimSpace(d.WebhookID)
	if webhookID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deliveries[webhookID]; !ok {
		d.CreatedAt = time.Now().UTC()
		m.deliveries[webhookID] = *d
	}
	return nil
}
