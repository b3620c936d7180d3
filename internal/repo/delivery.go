package repo

import (
	"context"

	"github.com/ndolgikh/marketcore/internal/models"
)

func (r *GormRepo) DeliveryByOrder(ctx context.Context, orderID uint) (*models.DeliveryRecord, error) {
	var rec models.DeliveryRecord
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *GormRepo) CreateDelivery(ctx context.Context, rec *models.DeliveryRecord) error {
	return r.DB.WithContext(ctx).Create(rec).Error
}

// SetActualDelivery records the real delivery date and marks the record
// delivered; the expected date and tracking id stay as generated.
func (r *GormRepo) SetActualDelivery(ctx context.Context, orderID uint, rec *models.DeliveryRecord) error {
	return r.DB.WithContext(ctx).Model(&models.DeliveryRecord{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"actual_date": rec.ActualDate,
			"status":      rec.Status,
		}).Error
}
