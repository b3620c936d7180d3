package repo

import (
	"context"
	"time"

	"github.com/ndolgikh/marketcore/internal/models"
)

func (r *GormRepo) CreatePromotion(ctx context.Context, promo *models.Promotion) (*models.Promotion, error) {
	if err := r.DB.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

func (r *GormRepo) LinkPromotionProducts(ctx context.Context, promo *models.Promotion, productIDs []uint) error {
	for _, id := range productIDs {
		if err := r.DB.WithContext(ctx).Model(promo).
			Association("Products").Append(&models.Product{ID: id}); err != nil {
			return err
		}
	}
	return nil
}

// ActivePromotionForProduct returns the promotion whose window contains
// asOf and which targets the product. With several active at once the
// lowest promotion id wins; the tie-break is deliberate and documented
// on the pricing engine.
func (r *GormRepo) ActivePromotionForProduct(ctx context.Context, productID uint, asOf time.Time) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.DB.WithContext(ctx).Model(&models.Promotion{}).
		Joins("JOIN promotion_products pp ON pp.promotion_id = promotions.id").
		Where("pp.product_id = ?", productID).
		Where("promotions.starts_at <= ? AND promotions.ends_at >= ?", asOf, asOf).
		Order("promotions.id ASC").
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}
