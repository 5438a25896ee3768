package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-bookings/services"
	"storefront-bookings/utils"
)

// Shopify caps webhook bodies well below this.
const maxWebhookBody = 5 << 20

const (
	headerHmac       = "X-Shopify-Hmac-Sha256"
	headerTopic      = "X-Shopify-Topic"
	headerShopDomain = "X-Shopify-Shop-Domain"
	headerWebhookID  = "X-Shopify-Webhook-Id"
)

type failedCandidate struct {
	BookingDate string `json:"booking_date"`
	BookingType string `json:"booking_type"`
}

type WebhookController struct {
	WebhookSvc *services.WebhookService
	Log        *zap.Logger
}

func NewWebhookController(svc *services.WebhookService, log *zap.Logger) *WebhookController {
	return &WebhookController{WebhookSvc: svc, Log: log}
}

// readDelivery captures the raw body before anything parses it; the signature
// covers these exact bytes. The topic comes from the route, the header is only
// logged.
func (wc *WebhookController) readDelivery(c *gin.Context, topic string) (services.Delivery, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		wc.Log.Warn("failed to read webhook body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Could not read request body.")
		return services.Delivery{}, false
	}

	return services.Delivery{
		Topic:       topic,
		HeaderTopic: c.GetHeader(headerTopic),
		WebhookID:   c.GetHeader(headerWebhookID),
		ShopDomain:  c.GetHeader(headerShopDomain),
		Signature:   c.GetHeader(headerHmac),
		Body:        body,
	}, true
}

// respondError maps service errors to HTTP statuses.
func (wc *WebhookController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingSecret):
		utils.JSONError(c, http.StatusInternalServerError, "Server configuration error.")
	case errors.Is(err, services.ErrInvalidSignature):
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrMalformedPayload):
		utils.JSONError(c, http.StatusBadRequest, "Malformed order payload.")
	default:
		wc.Log.Error("webhook processing failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error.")
	}
}

// POST /webhooks/order-created
func (wc *WebhookController) OrderCreated(c *gin.Context) {
	wc.orderCreated(c, services.LenientNormalizer)
}

// POST /webhooks/shopify
func (wc *WebhookController) LegacyOrderCreated(c *gin.Context) {
	wc.orderCreated(c, services.StrictNormalizer)
}

func (wc *WebhookController) orderCreated(c *gin.Context, mode services.NormalizerMode) {
	d, ok := wc.readDelivery(c, services.TopicOrderCreated)
	if !ok {
		return
	}

	res, err := wc.WebhookSvc.HandleOrderCreated(c.Request.Context(), d, mode)
	if err != nil {
		wc.respondError(c, err)
		return
	}
	if res.Duplicate {
		utils.JSONSuccess(c, http.StatusOK, "Webhook already processed.", nil)
		return
	}

	if failures := res.Failures(); len(failures) > 0 {
		failed := make([]failedCandidate, 0, len(failures))
		for _, f := range failures {
			failed = append(failed, failedCandidate{
				BookingDate: f.Candidate.BookingDate,
				BookingType: f.Candidate.BookingType,
			})
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Some bookings could not be saved.",
			"failed":  failed,
		})
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Webhook processed successfully.", gin.H{
		"created":  res.Count(services.OutcomeCreated),
		"existing": res.Count(services.OutcomeExists),
	})
}

// POST /webhooks/order-cancelled
func (wc *WebhookController) OrderCancelled(c *gin.Context) {
	d, ok := wc.readDelivery(c, services.TopicOrderCancelled)
	if !ok {
		return
	}

	res, err := wc.WebhookSvc.HandleOrderCancelled(c.Request.Context(), d)
	if err != nil {
		wc.respondError(c, err)
		return
	}
	if res.Duplicate {
		utils.JSONSuccess(c, http.StatusOK, "Webhook already processed.", nil)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Order cancellation processed.", gin.H{"deleted": res.Deleted})
}
