package transport

import "time"

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Mobile    string `json:"mobile"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddToCartItem struct {
	ProductID uint  `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type AddToCartRequest struct {
	Items []AddToCartItem `json:"items"`
}

// AddItemOutcome reports each requested item separately; one rejected
// line never fails the rest of the batch.
type AddItemOutcome struct {
	ProductID uint   `json:"product_id"`
	Accepted  bool   `json:"accepted"`
	Reason    string `json:"reason,omitempty"`
}

type CheckoutRequest struct {
	ShippingMethod string `json:"shipping_method"`
}

type CheckoutResponse struct {
	OrderID uint    `json:"order_id"`
	Total   float64 `json:"total"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

type CreatePromotionRequest struct {
	Name            string    `json:"name"`
	DiscountPercent float64   `json:"discount_percent"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	ProductIDs      []uint    `json:"product_ids"`
}

type CreateTicketRequest struct {
	Description string `json:"description"`
	OrderID     *uint  `json:"order_id"`
	Status      string `json:"status"`
}
