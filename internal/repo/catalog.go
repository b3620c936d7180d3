package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

// PatchProduct updates the mutable product fields. Stock is deliberately
// absent: all stock movement goes through AdjustStock.
func (r *GormRepo) PatchProduct(ctx context.Context, id uint, name, description *string, price *float64) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}

	if name != nil {
		prod.Name = *name
	}
	if description != nil {
		prod.Description = *description
	}
	if price != nil {
		prod.Price = *price
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

// AdjustStock is the single mutation entry point for product stock. The
// guarded UPDATE keeps the non-negativity check and the write in one
// statement, so two checkouts racing on the last units cannot both win.
func (r *GormRepo) AdjustStock(ctx context.Context, productID uint, delta int64) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", productID).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, gorm.ErrRecordNotFound
		}
		return 0, ErrInsufficientStock
	}

	var stock int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).Pluck("stock", &stock).Error; err != nil {
		return 0, err
	}
	return stock, nil
}
