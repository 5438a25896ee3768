package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookDelivery is written once a webhook has been fully processed so that
// redeliveries with the same webhook id are acknowledged without side effects.
type WebhookDelivery struct {
	ID uint `gorm:"primaryKey" json:"id"`

	WebhookID   string         `gorm:"column:webhook_id;size:191;not null;uniqueIndex" json:"webhook_id"`
	Topic       string         `gorm:"column:topic;size:100;not null;index" json:"topic"`
	ShopDomain  string         `gorm:"column:shop_domain;size:255" json:"shop_domain,omitempty"`
	OrderID     string         `gorm:"column:order_id;size:64;index" json:"order_id"`
	Payload     datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	ProcessedAt time.Time      `gorm:"column:processed_at" json:"processed_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (WebhookDelivery) TableName() string { return "webhook_deliveries" }
