package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkotenko/storefront/internal/events"
	"github.com/dkotenko/storefront/internal/logging"
	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/repo"
	"github.com/dkotenko/storefront/internal/transport"
)

type CartService struct {
	Repo     *repo.GormRepo
	Producer events.Producer
}

func (s *CartService) publish(ctx context.Context, userID uuid.UUID, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, events.TopicCartEvents, userID.String(), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", events.TopicCartEvents, "error", err)
	}
}

// AddToCart puts one row into the user's cart. Unknown user or product means
// the operation is invalid and nothing is written. Adding the same product
// again adds another row.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "product_id", productID)

	if productID == uuid.Nil {
		return nil, fmt.Errorf("product id is required: %w", ErrValidation)
	}

	item, err := s.Repo.AddToCart(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("add_to_cart_rejected", "reason", "user or product does not exist")
			return nil, fmt.Errorf("user or product does not exist: %w", ErrInvalidOperation)
		}
		l.Error("add_to_cart_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"itemID":    item.ID,
	})

	l.Info("cart_item_added", "item_id", item.ID)
	return item, nil
}

// RemoveFromCart deletes one matching row per call. With duplicate rows the
// caller removes them one call at a time. No matching row at lookup time is
// an invalid operation; losing a race to another remove is a quiet no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "cart.remove", "user_id", userID, "product_id", productID)

	deleted, err := s.Repo.RemoveFromCart(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("remove_from_cart_rejected", "reason", "no such item in cart")
			return fmt.Errorf("product is not in the cart: %w", ErrInvalidOperation)
		}
		l.Error("remove_from_cart_failed", "error", err)
		return err
	}

	if deleted {
		s.publish(ctx, userID, map[string]any{
			"type":      "cart_item_removed",
			"userID":    userID,
			"productID": productID,
		})
	}

	l.Info("cart_item_removed", "deleted", deleted)
	return nil
}

// ViewCart returns the cart enriched with each product's current name and
// price. Prices are read live: a catalog update shows up on the next view.
func (s *CartService) ViewCart(ctx context.Context, userID uuid.UUID) ([]transport.CartEntry, error) {
	return s.Repo.GetCart(ctx, userID)
}

// Checkout clears the whole cart in one transaction. There is no order
// record: checkout and "empty the cart" are the same irreversible action.
func (s *CartService) Checkout(ctx context.Context, userID uuid.UUID) (int64, error) {
	l := logging.FromContext(ctx).With("svc", "cart.checkout", "user_id", userID)

	cleared, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		l.Error("checkout_failed", "error", err)
		return 0, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":    "cart_checked_out",
		"userID":  userID,
		"cleared": cleared,
	})

	l.Info("cart_checked_out", "cleared", cleared)
	return cleared, nil
}
