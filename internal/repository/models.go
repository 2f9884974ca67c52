package repository

import (
	"time"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
)

// NotificationModel is the persistence model for the notifications table.
type NotificationModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// DeviceTokenModel is the persistence model for device_tokens. The provider
// token is the primary key; there are no other attributes to update.
type DeviceTokenModel struct {
	Token     string `gorm:"type:varchar(512);primaryKey"`
	CreatedAt time.Time
}

func (DeviceTokenModel) TableName() string {
	return "device_tokens"
}

func notificationModelFromDomain(n *domain.NotificationRecord) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.NotificationRecord {
	if m == nil {
		return nil
	}

	return &domain.NotificationRecord{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
