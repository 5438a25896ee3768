package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"storefront-bookings/metrics"
	"storefront-bookings/models"
)

const (
	TopicOrderCreated   = "orders/create"
	TopicOrderCancelled = "orders/cancelled"
)

// DeliveryStore remembers webhook ids that were processed successfully.
type DeliveryStore interface {
	Processed(ctx context.Context, webhookID string) (bool, error)
	Record(ctx context.Context, d *models.WebhookDelivery) error
}

// Delivery is one inbound webhook request. Topic is pinned by the handling
// method and used as a metric label; HeaderTopic is what the sender claimed and
// is only logged.
type Delivery struct {
	Topic       string
	HeaderTopic string
	WebhookID   string
	ShopDomain  string
	Signature   string
	Body        []byte
}

type OrderCreatedResult struct {
	OrderID   string
	Duplicate bool
	Outcomes  []ReconcileOutcome
}

// Count returns how many outcomes have status st.
func (r *OrderCreatedResult) Count(st OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == st {
			n++
		}
	}
	return n
}

// Failures returns the outcomes that could not be stored.
func (r *OrderCreatedResult) Failures() []ReconcileOutcome {
	var failed []ReconcileOutcome
	for _, o := range r.Outcomes {
		if o.Status == OutcomeFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

type OrderCancelledResult struct {
	OrderID   string
	OrderGID  string
	Duplicate bool
	Deleted   int64
}

// WebhookService runs verify, normalize and reconcile for order webhooks.
// Authentication and configuration failures stop a delivery before its body is
// parsed.
type WebhookService struct {
	verifier   *SignatureVerifier
	bookings   *BookingService
	deliveries DeliveryStore
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewWebhookService(verifier *SignatureVerifier, bookings *BookingService, deliveries DeliveryStore, m *metrics.Metrics, log *zap.Logger) *WebhookService {
	return &WebhookService{
		verifier:   verifier,
		bookings:   bookings,
		deliveries: deliveries,
		metrics:    m,
		log:        log,
	}
}

func (s *WebhookService) authenticate(d Delivery) error {
	err := s.verifier.Verify(d.Body, d.Signature)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingSecret):
		s.log.Error("webhook secret is not configured; rejecting delivery", zap.String("topic", d.Topic))
		s.metrics.Delivery(d.Topic, metrics.OutcomeMisconfigured)
	default:
		s.log.Warn("webhook signature verification failed",
			zap.String("topic", d.Topic),
			zap.String("header_topic", d.HeaderTopic),
			zap.String("shop", d.ShopDomain),
			zap.Bool("header_present", strings.TrimSpace(d.Signature) != ""),
		)
		s.metrics.Delivery(d.Topic, metrics.OutcomeUnauthorized)
	}
	return err
}

// alreadyProcessed treats a failing lookup as "not processed": reconciliation
// is idempotent, so processing twice is safe.
func (s *WebhookService) alreadyProcessed(ctx context.Context, d Delivery) bool {
	if d.WebhookID == "" {
		return false
	}
	done, err := s.deliveries.Processed(ctx, d.WebhookID)
	if err != nil {
		s.log.Warn("webhook delivery lookup failed", zap.String("webhook_id", d.WebhookID), zap.Error(err))
		return false
	}
	if done {
		s.log.Info("webhook already processed", zap.String("webhook_id", d.WebhookID), zap.String("topic", d.Topic))
		s.metrics.Delivery(d.Topic, metrics.OutcomeDuplicate)
	}
	return done
}

func (s *WebhookService) record(ctx context.Context, d Delivery, orderID string) {
	if d.WebhookID == "" {
		return
	}
	rec := &models.WebhookDelivery{
		WebhookID:   d.WebhookID,
		Topic:       d.Topic,
		ShopDomain:  d.ShopDomain,
		OrderID:     orderID,
		ProcessedAt: time.Now().UTC(),
	}
	if json.Valid(d.Body) {
		rec.Payload = datatypes.JSON(d.Body)
	}
	if err := s.deliveries.Record(ctx, rec); err != nil {
		s.log.Warn("failed to record webhook delivery", zap.String("webhook_id", d.WebhookID), zap.Error(err))
	}
}

// HandleOrderCreated books every dated line item of a new order.
func (s *WebhookService) HandleOrderCreated(ctx context.Context, d Delivery, mode NormalizerMode) (*OrderCreatedResult, error) {
	d.Topic = TopicOrderCreated
	if err := s.authenticate(d); err != nil {
		return nil, err
	}
	if s.alreadyProcessed(ctx, d) {
		return &OrderCreatedResult{Duplicate: true}, nil
	}

	order, err := ParseOrder(d.Body)
	if err != nil {
		s.metrics.Delivery(d.Topic, metrics.OutcomeMalformed)
		return nil, err
	}
	ob, err := NormalizeOrder(order, mode)
	if err != nil {
		s.metrics.Delivery(d.Topic, metrics.OutcomeMalformed)
		return nil, err
	}

	s.log.Info("order received",
		zap.String("topic", d.Topic),
		zap.String("order_id", ob.OrderID),
		zap.String("order_name", ob.OrderName),
		zap.String("customer", ob.CustomerName),
		zap.Int("candidates", len(ob.Candidates)),
	)

	res := &OrderCreatedResult{OrderID: ob.OrderID, Outcomes: s.bookings.Reconcile(ctx, ob)}
	for _, o := range res.Outcomes {
		s.metrics.BookingsReconciled.WithLabelValues(string(o.Status)).Inc()
	}

	if len(res.Failures()) > 0 {
		s.metrics.Delivery(d.Topic, metrics.OutcomeFailed)
		return res, nil
	}
	s.record(ctx, d, ob.OrderID)
	s.metrics.Delivery(d.Topic, metrics.OutcomeProcessed)
	return res, nil
}

// HandleOrderCancelled removes the bookings of a cancelled order.
func (s *WebhookService) HandleOrderCancelled(ctx context.Context, d Delivery) (*OrderCancelledResult, error) {
	d.Topic = TopicOrderCancelled
	if err := s.authenticate(d); err != nil {
		return nil, err
	}
	if s.alreadyProcessed(ctx, d) {
		return &OrderCancelledResult{Duplicate: true}, nil
	}

	order, err := ParseOrder(d.Body)
	if err != nil {
		s.metrics.Delivery(d.Topic, metrics.OutcomeMalformed)
		return nil, err
	}
	res := &OrderCancelledResult{
		OrderID:  order.ID.String(),
		OrderGID: strings.TrimSpace(order.AdminGraphqlAPIID),
	}
	if res.OrderID == "" && res.OrderGID == "" {
		s.metrics.Delivery(d.Topic, metrics.OutcomeMalformed)
		return nil, fmt.Errorf("%w: order id missing", ErrMalformedPayload)
	}

	name, _ := CustomerIdentity(order.Customer)
	s.log.Info("order cancellation received",
		zap.String("order_id", res.OrderID),
		zap.String("order_gid", res.OrderGID),
		zap.String("customer", name),
		zap.String("reason", order.CancelReason),
		zap.String("cancelled_at", order.CancelledAt),
	)

	deleted, err := s.bookings.Cancel(ctx, res.OrderID, res.OrderGID)
	if err != nil {
		s.metrics.Delivery(d.Topic, metrics.OutcomeFailed)
		return nil, fmt.Errorf("delete bookings for order %s: %w", res.OrderID, err)
	}
	res.Deleted = deleted
	s.metrics.BookingsCancelled.Add(float64(deleted))

	s.record(ctx, d, res.OrderID)
	s.metrics.Delivery(d.Topic, metrics.OutcomeProcessed)
	return res, nil
}
