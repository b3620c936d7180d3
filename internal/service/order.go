package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/audit"
	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/pricing"
	"github.com/ndolgikh/marketcore/internal/repo"
)

const maxCheckoutAttempts = 3

type OrderService struct {
	Repo    *repo.GormRepo
	Pricing *pricing.Engine
	Audit   *audit.Sink

	// Now overrides the clock in tests; nil means time.Now.
	Now func() time.Time
}

type OrderDetail struct {
	Order    *models.Order          `json:"order"`
	Items    []models.OrderItem     `json:"items"`
	Delivery *models.DeliveryRecord `json:"delivery,omitempty"`
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func NormalizeShippingMethod(m string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case "standard":
		return models.ShippingStandard, true
	case "express":
		return models.ShippingExpress, true
	case "same-day", "same_day", "sameday":
		return models.ShippingSameDay, true
	default:
		return "", false
	}
}

// Checkout converts the user's cart into a placed order in one atomic
// unit of work: freeze prices, create the order and its lines, debit
// stock, delete the cart, create the delivery record. Any line failing
// the hard stock check aborts the whole thing. Lock contention is
// retried a few times before surfacing a conflict.
func (s *OrderService) Checkout(ctx context.Context, userID uint, shippingMethod string) (*models.Order, error) {
	method, ok := NormalizeShippingMethod(shippingMethod)
	if !ok {
		return nil, fmt.Errorf("%w: unknown shipping method %q", ErrValidation, shippingMethod)
	}

	var (
		order *models.Order
		err   error
	)
	for attempt := 1; attempt <= maxCheckoutAttempts; attempt++ {
		order, err = s.checkoutOnce(ctx, userID, method)
		if err == nil || !retryableTxError(err) {
			break
		}
	}
	if err != nil {
		if retryableTxError(err) {
			return nil, fmt.Errorf("%w: checkout contention: %v", ErrConflict, err)
		}
		return nil, err
	}

	s.Audit.Emit(ctx, audit.Event{
		Entity: "orders",
		Action: audit.ActionInsert,
		After:  order,
		Actor:  fmt.Sprint(userID),
	})
	return order, nil
}

func (s *OrderService) checkoutOnce(ctx context.Context, userID uint, method string) (*models.Order, error) {
	var order *models.Order

	txErr := s.Repo.DB.Transaction(func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)

		cart, err := r.CartByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart is empty", ErrNotFound)
		}
		if err != nil {
			return err
		}
		items, err := r.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrNotFound)
		}

		now := s.now()
		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			product, err := r.GetProduct(ctx, it.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", ErrNotFound, it.ProductID)
			}
			if err != nil {
				return err
			}

			quote, err := s.Pricing.Quote(ctx, r, product, it.Quantity, now)
			if err != nil {
				return err
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				UnitPrice:       quote.UnitPrice,
				DiscountPercent: quote.DiscountPercent,
				LineTotal:       quote.LineTotal,
			})
			total = total.Add(decimal.NewFromFloat(quote.LineTotal))
		}

		totalF, _ := total.RoundBank(2).Float64()
		o := &models.Order{
			UserID:         userID,
			Total:          totalF,
			Status:         models.OrderStatusPlaced,
			ShippingMethod: method,
			PlacedAt:       now.Unix(),
		}
		if _, err := r.CreateOrder(ctx, o); err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = o.ID
		}
		if err := r.CreateOrderItems(ctx, orderItems); err != nil {
			return err
		}

		// hard check at commit time: the guarded debit rejects any line
		// that would oversell and rolls back the whole order
		for _, it := range items {
			if _, err := r.AdjustStock(ctx, it.ProductID, -int64(it.Quantity)); err != nil {
				if errors.Is(err, repo.ErrInsufficientStock) {
					return fmt.Errorf("%w: insufficient stock for product %d", ErrConflict, it.ProductID)
				}
				return err
			}
		}

		if err := r.DeleteCart(ctx, cart.ID); err != nil {
			return err
		}

		if err := s.scheduleFulfillment(ctx, r, o); err != nil {
			return err
		}

		order = o
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

// Cancel moves a placed order to cancelled and credits back exactly the
// quantities its lines debited, once per transition.
func (s *OrderService) Cancel(ctx context.Context, orderID uint, actor string) (*models.Order, error) {
	order, err := s.toggleStatus(ctx, orderID, models.OrderStatusPlaced, models.OrderStatusCancelled, +1)
	if err != nil {
		return nil, err
	}
	s.emitStatusChange(ctx, order, models.OrderStatusPlaced, actor)
	return order, nil
}

// Reopen re-places a cancelled order, re-debiting stock for every line.
// Re-placing deliberately skips checkout's validation: repeated
// cancel/reopen toggles mutate stock by the same quantities each time.
// The ledger's non-negativity guard still applies, so a reopen that
// would oversell fails with a conflict.
func (s *OrderService) Reopen(ctx context.Context, orderID uint, actor string) (*models.Order, error) {
	order, err := s.toggleStatus(ctx, orderID, models.OrderStatusCancelled, models.OrderStatusPlaced, -1)
	if err != nil {
		return nil, err
	}
	s.emitStatusChange(ctx, order, models.OrderStatusCancelled, actor)
	return order, nil
}

func (s *OrderService) toggleStatus(ctx context.Context, orderID uint, from, to string, stockSign int64) (*models.Order, error) {
	var order *models.Order

	txErr := s.Repo.DB.Transaction(func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)

		o, err := r.GetOrder(ctx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		if err != nil {
			return err
		}

		rows, err := r.TransitionOrderStatus(ctx, orderID, from, to)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: order %d is not %s", ErrConflict, orderID, from)
		}

		items, err := r.OrderItems(ctx, orderID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if _, err := r.AdjustStock(ctx, it.ProductID, stockSign*int64(it.Quantity)); err != nil {
				if errors.Is(err, repo.ErrInsufficientStock) {
					return fmt.Errorf("%w: insufficient stock for product %d", ErrConflict, it.ProductID)
				}
				return err
			}
		}

		// the delivery record was created on the first transition into
		// placed; this is a no-op on every later toggle
		if to == models.OrderStatusPlaced {
			if err := s.scheduleFulfillment(ctx, r, o); err != nil {
				return err
			}
		}

		o.Status = to
		order = o
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

func (s *OrderService) emitStatusChange(ctx context.Context, order *models.Order, previous, actor string) {
	s.Audit.Emit(ctx, audit.Event{
		Entity: "orders",
		Action: audit.ActionUpdate,
		Before: map[string]any{"id": order.ID, "status": previous},
		After:  map[string]any{"id": order.ID, "status": order.Status},
		Actor:  actor,
	})
}

func (s *OrderService) Get(ctx context.Context, orderID uint) (*OrderDetail, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	items, err := s.Repo.OrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: order, Items: items}
	delivery, err := s.Repo.DeliveryByOrder(ctx, orderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	detail.Delivery = delivery
	return detail, nil
}

func (s *OrderService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}
