package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/repo"
)

// Quote is a priced cart line at a given instant. Checkout freezes these
// values into the order line; later promotion changes never touch them.
type Quote struct {
	UnitPrice       float64
	DiscountPercent float64
	LineTotal       float64
}

type Engine struct{}

// Quote prices quantity units of product as of the given instant. The
// discount comes from the promotion active at asOf; with several active
// the lowest promotion id wins. Line totals are rounded half-to-even at
// two decimals.
func (e *Engine) Quote(ctx context.Context, r *repo.GormRepo, product *models.Product, quantity uint, asOf time.Time) (Quote, error) {
	discount := 0.0
	promo, err := r.ActivePromotionForProduct(ctx, product.ID, asOf)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Quote{}, err
	}
	if promo != nil {
		discount = promo.DiscountPercent
	}

	unit := decimal.NewFromFloat(product.Price)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount).Div(decimal.NewFromInt(100)))
	line := unit.Mul(decimal.NewFromInt(int64(quantity))).Mul(factor).RoundBank(2)

	lineTotal, _ := line.Float64()
	return Quote{
		UnitPrice:       product.Price,
		DiscountPercent: discount,
		LineTotal:       lineTotal,
	}, nil
}
