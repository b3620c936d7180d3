package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/models"
)

// ErrInsufficientStock is returned by AdjustStock when a debit would
// drive a product's stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type GormRepo struct {
	DB *gorm.DB
}

// WithTx returns a repo bound to the given transaction handle, so the
// same queries run inside or outside a transaction.
func (r *GormRepo) WithTx(tx *gorm.DB) *GormRepo {
	return &GormRepo{DB: tx}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Promotion{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliveryRecord{},
		&models.SupportTicket{},
	)
}
