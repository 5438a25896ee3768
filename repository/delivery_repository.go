package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-bookings/models"
)

type DeliveryRepository struct{ db *gorm.DB }

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Processed(ctx context.Context, webhookID string) (bool, error) {
	webhookID = strings.TrimSpace(webhookID)
	if webhookID == "" {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WebhookDelivery{}).
		Where("webhook_id = ?", webhookID).
		Count(&count).Error
	return count > 0, err
}

// Record stores a processed delivery. Recording the same webhook id twice is
// not an error.
func (r *DeliveryRepository) Record(ctx context.Context, d *models.WebhookDelivery) error {
	if strings.TrimSpace(d.WebhookID) == "" {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(d).Error
	if IsDuplicateKey(err) {
		return nil
	}
	return err
}
