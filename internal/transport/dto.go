package transport

import "github.com/google/uuid"

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateProductRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
}

// ProductPatch carries a partial update: nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

// ProductSummary is the list view: description is intentionally omitted.
type ProductSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// CartEntry is a cart row enriched with the product's current name and
// price. Price is read live at view time, not snapshotted at add time.
type CartEntry struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductPrice float64   `json:"product_price"`
}

type CheckoutResponse struct {
	Message string `json:"message"`
	Cleared int64  `json:"cleared"`
}
