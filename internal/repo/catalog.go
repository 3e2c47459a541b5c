package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/transport"
)

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]transport.ProductSummary, error) {
	items := make([]transport.ProductSummary, 0)
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Select("id, name, price").
		Order("name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, id uuid.UUID, patch transport.ProductPatch) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&prod).Error; err != nil {
			return err
		}

		if patch.Name != nil {
			prod.Name = *patch.Name
		}
		if patch.Price != nil {
			prod.Price = *patch.Price
		}
		if patch.Description != nil {
			prod.Description = *patch.Description
		}

		return tx.Save(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// DeleteProduct removes the product and, in the same transaction, every
// cart row that references it. Carts never hold dangling product ids.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
