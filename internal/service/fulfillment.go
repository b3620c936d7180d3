package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/repo"
)

func DeliveryOffsetDays(shippingMethod string) int {
	switch shippingMethod {
	case models.ShippingStandard:
		return 7
	case models.ShippingExpress:
		return 3
	case models.ShippingSameDay:
		return 1
	default:
		return 0
	}
}

// TrackingID derives a per-order tracking identifier from the order id
// and the generation instant.
func TrackingID(orderID uint, at time.Time) string {
	return fmt.Sprintf("TRACK-%d%s", orderID, at.Format("20060102150405"))
}

// scheduleFulfillment creates the order's delivery record on its first
// transition into placed. Create-if-absent makes it idempotent: a retry
// or a reopened order never gets a second record.
func (s *OrderService) scheduleFulfillment(ctx context.Context, r *repo.GormRepo, order *models.Order) error {
	_, err := r.DeliveryByOrder(ctx, order.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	placedAt := time.Unix(order.PlacedAt, 0).UTC()
	rec := models.DeliveryRecord{
		OrderID:      order.ID,
		TrackingID:   TrackingID(order.ID, s.now()),
		ExpectedDate: placedAt.AddDate(0, 0, DeliveryOffsetDays(order.ShippingMethod)),
		Status:       models.DeliveryStatusProcessing,
	}
	return r.CreateDelivery(ctx, &rec)
}

// MarkDelivered sets the actual delivery date on an order's delivery
// record. The actual date may never precede the expected one.
func (s *OrderService) MarkDelivered(ctx context.Context, orderID uint, deliveredAt time.Time) (*models.DeliveryRecord, error) {
	rec, err := s.Repo.DeliveryByOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no delivery record for order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	if deliveredAt.Before(rec.ExpectedDate) {
		return nil, fmt.Errorf("%w: actual delivery date precedes expected date", ErrValidation)
	}

	deliveredAt = deliveredAt.UTC()
	rec.ActualDate = &deliveredAt
	rec.Status = models.DeliveryStatusDelivered
	if err := s.Repo.SetActualDelivery(ctx, orderID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
