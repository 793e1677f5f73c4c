// Package gormstore implements repository.Store on GORM/PostgreSQL.
// InTx maps to a database transaction; the *ForUpdate readers take
// SELECT ... FOR UPDATE row locks, which is the sole concurrency-control
// mechanism of the system.
package gormstore

import (
	"errors"

	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

// New wraps a GORM handle in a repository.Store.
func New(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Users() repository.UserRepository                 { return &userRepo{s.db} }
func (s *store) Products() repository.ProductRepository           { return &productRepo{s.db} }
func (s *store) Carts() repository.CartRepository                 { return &cartRepo{s.db} }
func (s *store) Orders() repository.OrderRepository               { return &orderRepo{s.db} }
func (s *store) Payments() repository.PaymentRepository           { return &paymentRepo{s.db} }
func (s *store) Reviews() repository.ReviewRepository             { return &reviewRepo{s.db} }
func (s *store) SellerRatings() repository.SellerRatingRepository { return &sellerRatingRepo{s.db} }
func (s *store) Shipments() repository.ShipmentRepository         { return &shipmentRepo{s.db} }
func (s *store) Payouts() repository.PayoutRepository             { return &payoutRepo{s.db} }
func (s *store) AuditLogs() repository.AuditLogRepository         { return &auditRepo{s.db} }

func (s *store) InTx(fn func(repository.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

// translate maps gorm's not-found sentinel onto the repository one.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}
