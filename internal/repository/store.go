package repository

import (
	"errors"
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
)

// ErrNotFound is returned by every repository when the row does not exist.
// Implementations translate their backend's sentinel (gorm.ErrRecordNotFound,
// missing map key) into this one.
var ErrNotFound = errors.New("repository: record not found")

// Store bundles the per-entity repositories behind one injected handle.
// All multi-step mutations run inside InTx: the function receives a
// transaction-scoped Store and every change made through it is committed
// or rolled back atomically.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Reviews() ReviewRepository
	SellerRatings() SellerRatingRepository
	Shipments() ShipmentRepository
	Payouts() PayoutRepository
	AuditLogs() AuditLogRepository

	InTx(fn func(Store) error) error
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role  string
	Query string
}

type UserRepository interface {
	Create(u *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(u *model.User) error
	List(f UserFilter) ([]model.User, error)
	// UpdateRatingStats writes the denormalized seller aggregate.
	UpdateRatingStats(sellerID uint, avg *float64, total int) error
	Counts() (model.UserCounts, error)
}

// ProductFilter narrows the public catalog listing.
type ProductFilter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
}

type ProductRepository interface {
	Create(p *model.Product) error
	Update(p *model.Product) error
	FindByID(id uint) (*model.Product, error)
	// FindByIDForUpdate locks the product row for the duration of the
	// surrounding transaction.
	FindByIDForUpdate(id uint) (*model.Product, error)
	ListActive(f ProductFilter) ([]model.Product, error)
	ListBySeller(sellerID uint) ([]model.Product, error)
	// AdjustStock adds delta to the stock counter. Callers hold the row
	// lock and have verified the result stays non-negative.
	AdjustStock(id uint, delta int) error
	SetStatus(id uint, status string) error
	SoftDelete(id uint) error
	Counts() (total, active int64, err error)
}

type CartRepository interface {
	FindByBuyer(buyerID uint) (*model.Cart, error)
	Create(c *model.Cart) error
	Items(cartID uint) ([]model.CartItem, error)
	// Lines joins items with their live product rows, excluding soft-deleted
	// products.
	Lines(cartID uint) ([]model.CartLine, error)
	FindItem(cartID, produkID uint) (*model.CartItem, error)
	FindItemByID(itemID, cartID uint) (*model.CartItem, error)
	CreateItem(it *model.CartItem) error
	UpdateItemQty(itemID uint, jumlah int) error
	DeleteItem(itemID, cartID uint) error
	ClearItems(cartID uint) error
	// DeleteItemsByProduct cascades a product soft delete into carts so no
	// orphan cart item references it.
	DeleteItemsByProduct(produkID uint) error
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	Create(o *model.Order) error
	FindByID(id uint) (*model.Order, error)
	// FindByIDForUpdate locks the order row; status transitions serialize on
	// this lock.
	FindByIDForUpdate(id uint) (*model.Order, error)
	Update(o *model.Order) error
	Items(orderID uint) ([]model.OrderItem, error)
	// ItemsWithProducts joins items with product and seller info for order
	// detail views. Soft-deleted products stay joinable here.
	ItemsWithProducts(orderID uint) ([]model.OrderItemDetail, error)
	ListByBuyer(buyerID uint) ([]model.Order, error)
	ListByBuyerAndStatus(buyerID uint, status model.OrderStatus) ([]model.Order, error)
	// ListBySeller returns orders containing at least one of the seller's
	// products.
	ListBySeller(sellerID uint) ([]model.Order, error)
	List(f OrderFilter) ([]model.Order, error)
	// ListCourierDeliveries returns orders visible to a courier: claimed by
	// them, or packed and unclaimed.
	ListCourierDeliveries(courierID uint) ([]model.Order, error)
	// CountOpenByProduct counts orders in a non-terminal status referencing
	// the product; used as the soft-delete guard.
	CountOpenByProduct(produkID uint) (int64, error)
	// CountItemsBySeller reports how many items of an order belong to the
	// seller; zero means the seller is not part of the order.
	CountItemsBySeller(orderID, sellerID uint) (int64, error)
	SalesReport(from, to *time.Time) ([]model.SalesRow, error)
	Counts() (model.OrderCounts, error)
}

// PaymentFilter narrows admin transaction listings.
type PaymentFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

type PaymentRepository interface {
	Create(p *model.Payment) error
	FindByID(id uint) (*model.Payment, error)
	FindByIDForUpdate(id uint) (*model.Payment, error)
	FindByOrder(orderID uint) (*model.Payment, error)
	Update(p *model.Payment) error
	ListByOrder(orderID uint) ([]model.Payment, error)
	List(f PaymentFilter) ([]model.Payment, error)
	Counts() (total, confirmed int64, err error)
}

// ReviewFilter narrows admin review listings.
type ReviewFilter struct {
	Status string
	Rating int
}

type ReviewRepository interface {
	Create(r *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByOrderItem(itemID, buyerID uint) (*model.Review, error)
	ListByProduct(produkID uint, status string) ([]model.Review, error)
	List(f ReviewFilter) ([]model.Review, error)
	SetStatus(id uint, status string) error
}

type SellerRatingRepository interface {
	Create(r *model.SellerRating) error
	FindByID(id uint) (*model.SellerRating, error)
	Find(buyerID, orderID, sellerID uint) (*model.SellerRating, error)
	Update(r *model.SellerRating) error
	SetStatus(id uint, status string) error
	// ListActiveBySeller feeds the full aggregate recompute.
	ListActiveBySeller(sellerID uint) ([]model.SellerRating, error)
	ListBySellerPage(sellerID uint, limit, offset int) ([]model.SellerRating, int64, error)
}

type ShipmentRepository interface {
	Create(s *model.Shipment) error
	FindByID(id uint) (*model.Shipment, error)
	FindByIDForUpdate(id uint) (*model.Shipment, error)
	FindByOrder(orderID uint) (*model.Shipment, error)
	Update(s *model.Shipment) error
	ListByCourier(courierID uint) ([]model.Shipment, error)
}

type PayoutRepository interface {
	Create(p *model.Payout) error
	List(status string) ([]model.Payout, error)
}

type AuditLogRepository interface {
	Append(entry *model.AuditLog) error
}
