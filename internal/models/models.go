package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"  json:"username"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null;default:user" json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null"             json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"             json:"price"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CartItem is one "product in cart" row. There is no quantity column:
// adding the same product again creates another row, and removal deletes
// one row per call.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// RefreshToken stores the sha256 of an issued refresh JWT so that logout can
// revoke the session server-side.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"     json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"default:false"            json:"revoked"`
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	return nil
}
