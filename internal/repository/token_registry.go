package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRegistry is the durable registry of device push endpoints. List must
// return a stable snapshot for the duration of one fan-out run; Remove is
// idempotent, removing an absent token is not an error.
type TokenRegistry interface {
	List(ctx context.Context) ([]string, error)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context, token string) error
}

type GormTokenRegistry struct {
	db *gorm.DB
}

func NewGormTokenRegistry(db *gorm.DB) *GormTokenRegistry {
	return &GormTokenRegistry{db: db}
}

// List returns every registered token ordered by registration time, so
// repeated runs batch the same population deterministically.
func (r *GormTokenRegistry) List(ctx context.Context) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&DeviceTokenModel{}).
		Order("created_at ASC").
		Pluck("token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// Save registers a token. Re-registering an existing token is a no-op; the
// token is the primary key and carries no payload to refresh.
func (r *GormTokenRegistry) Save(ctx context.Context, token string) error {
	model := DeviceTokenModel{Token: token}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error
}

// Remove deletes a token. Zero rows affected means the token was already
// gone, which is success.
func (r *GormTokenRegistry) Remove(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Delete(&DeviceTokenModel{}, "token = ?", token).Error
}
