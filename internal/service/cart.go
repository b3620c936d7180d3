package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/repo"
	"github.com/ndolgikh/marketcore/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// AddItems applies a batch of add-to-cart requests for one user. The
// stock comparison here is advisory only: nothing is reserved, checkout
// re-checks against current stock when it commits. A product already in
// the cart accumulates quantity into its existing line.
func (s *CartService) AddItems(ctx context.Context, userID uint, req transport.AddToCartRequest) ([]transport.AddItemOutcome, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	outcomes := make([]transport.AddItemOutcome, 0, len(req.Items))
	txErr := s.Repo.DB.Transaction(func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)

		var cart *models.Cart
		for _, it := range req.Items {
			if it.Quantity <= 0 {
				outcomes = append(outcomes, transport.AddItemOutcome{
					ProductID: it.ProductID, Accepted: false, Reason: "quantity must be positive",
				})
				continue
			}

			product, err := r.GetProduct(ctx, it.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcomes = append(outcomes, transport.AddItemOutcome{
					ProductID: it.ProductID, Accepted: false, Reason: "product not found",
				})
				continue
			}
			if err != nil {
				return err
			}

			if it.Quantity > product.Stock {
				outcomes = append(outcomes, transport.AddItemOutcome{
					ProductID: it.ProductID, Accepted: false, Reason: "insufficient stock",
				})
				continue
			}

			if cart == nil {
				cart, err = r.GetOrCreateCart(ctx, userID)
				if err != nil {
					return err
				}
			}
			if _, err := r.UpsertCartItem(ctx, cart.ID, it.ProductID, uint(it.Quantity)); err != nil {
				return err
			}
			outcomes = append(outcomes, transport.AddItemOutcome{ProductID: it.ProductID, Accepted: true})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return outcomes, nil
}

// GetItems returns the user's current cart lines; a user with no cart
// yet simply has no lines.
func (s *CartService) GetItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	cart, err := s.Repo.CartByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Repo.CartItems(ctx, cart.ID)
}
