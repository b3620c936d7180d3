package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ndolgikh/marketcore/internal/models"
)

func (r *GormRepo) CartByUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateCart creates the user's cart lazily on first use. The
// unique index on user_id keeps concurrent creators down to one row.
func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := r.CartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newCart := models.Cart{UserID: userID}
	if err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&newCart).Error; err != nil {
		return nil, err
	}
	return r.CartByUser(ctx, userID)
}

func (r *GormRepo) CartItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertCartItem inserts a line or, when the product is already in the
// cart, accumulates the quantity into the existing row.
func (r *GormRepo) UpsertCartItem(ctx context.Context, cartID, productID uint, quantity uint) (*models.CartItem, error) {
	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&item).Error; err != nil {
		return nil, err
	}

	var saved models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteCart removes the cart together with its items; neither side is
// ever deleted on its own.
func (r *GormRepo) DeleteCart(ctx context.Context, cartID uint) error {
	if err := r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Delete(&models.Cart{}, cartID).Error
}
