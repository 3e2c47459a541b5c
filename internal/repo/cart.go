package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/transport"
)

// AddToCart inserts one cart row after verifying that both the user and the
// product exist. Existence checks and the insert share one transaction, so a
// failed resolution writes nothing. Duplicate adds produce duplicate rows.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		var product models.Product
		if err := tx.Where("id = ?", productID).First(&product).Error; err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart deletes at most one matching cart row. When no row matches
// it returns gorm.ErrRecordNotFound; when the row disappears between lookup
// and delete (a concurrent remove won) the call is a silent no-op.
func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	deleted := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			First(&item).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", item.ID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// GetCart joins each cart row with the product's current name and price.
func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]transport.CartEntry, error) {
	entries := make([]transport.CartEntry, 0)
	err := r.DB.WithContext(ctx).Table("cart_items").
		Select("cart_items.id, cart_items.user_id, cart_items.product_id, products.name AS product_name, products.price AS product_price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearCart deletes every cart row of the user in a single statement and
// reports how many rows went away.
func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
