package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP status codes; anything else is treated as an internal error.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("operation not allowed for this user")

	ErrCartEmpty      = errors.New("cart is empty")
	ErrProductMissing = errors.New("product no longer available")
	ErrProductInUse   = errors.New("product has open orders")

	ErrOrderNotCancelable    = errors.New("order can no longer be cancelled")
	ErrOrderNotPackable      = errors.New("order is not ready to be packed")
	ErrOrderNotShippable     = errors.New("order is not ready to be shipped")
	ErrOrderNotInTransit     = errors.New("order is not in transit")
	ErrOrderAlreadyClaimed   = errors.New("order already claimed by another courier")
	ErrOrderNotCompleted     = errors.New("order is not completed yet")
	ErrInvalidStatusChange   = errors.New("invalid order status change")
	ErrReviewAlreadyExists   = errors.New("product already reviewed for this order")
	ErrRatingAlreadyExists   = errors.New("seller already rated for this order")
	ErrCommentTooLong        = errors.New("comment exceeds the allowed length")
	ErrSellerNotInOrder      = errors.New("seller has no items in this order")
	ErrProductNotInOrder     = errors.New("product is not part of this order")
	ErrShipmentAlreadyClosed = errors.New("shipment already marked as received")
)

// InsufficientStockError reports which product blocked a checkout.
type InsufficientStockError struct {
	ProdukID   uint
	NamaProduk string
	Tersedia   int
	Diminta    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stok produk %d tidak mencukupi: tersedia %d, diminta %d", e.ProdukID, e.Tersedia, e.Diminta)
}

// IsConflict reports whether err describes a state conflict (HTTP 409).
func IsConflict(err error) bool {
	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &stockErr),
		errors.Is(err, ErrOrderNotCancelable),
		errors.Is(err, ErrOrderNotPackable),
		errors.Is(err, ErrOrderNotShippable),
		errors.Is(err, ErrOrderNotInTransit),
		errors.Is(err, ErrOrderAlreadyClaimed),
		errors.Is(err, ErrOrderNotCompleted),
		errors.Is(err, ErrInvalidStatusChange),
		errors.Is(err, ErrReviewAlreadyExists),
		errors.Is(err, ErrRatingAlreadyExists),
		errors.Is(err, ErrProductInUse),
		errors.Is(err, ErrShipmentAlreadyClosed):
		return true
	}
	return false
}

// IsValidation reports whether err describes a rejected request body (HTTP 422).
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrCartEmpty),
		errors.Is(err, ErrProductMissing),
		errors.Is(err, ErrCommentTooLong),
		errors.Is(err, ErrSellerNotInOrder),
		errors.Is(err, ErrProductNotInOrder):
		return true
	}
	return false
}
