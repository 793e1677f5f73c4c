// Package memory implements repository.Store on in-process maps. It exists
// for tests: InTx runs against a deep-copied snapshot that only replaces the
// live state on success, so transactional rollback and atomicity behave like
// the real database, and the store mutex serializes transactions the way row
// locks do.
package memory

import (
	"sync"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

type state struct {
	users         map[uint]model.User
	products      map[uint]model.Product
	carts         map[uint]model.Cart
	cartItems     map[uint]model.CartItem
	orders        map[uint]model.Order
	orderItems    map[uint]model.OrderItem
	payments      map[uint]model.Payment
	reviews       map[uint]model.Review
	sellerRatings map[uint]model.SellerRating
	shipments     map[uint]model.Shipment
	payouts       map[uint]model.Payout
	audits        map[uint]model.AuditLog
	seq           map[string]uint
}

func newState() *state {
	return &state{
		users:         map[uint]model.User{},
		products:      map[uint]model.Product{},
		carts:         map[uint]model.Cart{},
		cartItems:     map[uint]model.CartItem{},
		orders:        map[uint]model.Order{},
		orderItems:    map[uint]model.OrderItem{},
		payments:      map[uint]model.Payment{},
		reviews:       map[uint]model.Review{},
		sellerRatings: map[uint]model.SellerRating{},
		shipments:     map[uint]model.Shipment{},
		payouts:       map[uint]model.Payout{},
		audits:        map[uint]model.AuditLog{},
		seq:           map[string]uint{},
	}
}

func copyMap[V any](m map[uint]V) map[uint]V {
	out := make(map[uint]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies every table. Rows are stored and returned by value, so a
// shallow per-entry copy is enough to isolate a transaction snapshot.
func (st *state) clone() *state {
	seq := make(map[string]uint, len(st.seq))
	for k, v := range st.seq {
		seq[k] = v
	}
	return &state{
		users:         copyMap(st.users),
		products:      copyMap(st.products),
		carts:         copyMap(st.carts),
		cartItems:     copyMap(st.cartItems),
		orders:        copyMap(st.orders),
		orderItems:    copyMap(st.orderItems),
		payments:      copyMap(st.payments),
		reviews:       copyMap(st.reviews),
		sellerRatings: copyMap(st.sellerRatings),
		shipments:     copyMap(st.shipments),
		payouts:       copyMap(st.payouts),
		audits:        copyMap(st.audits),
		seq:           seq,
	}
}

func (st *state) nextID(table string) uint {
	st.seq[table]++
	return st.seq[table]
}

// Store is the root handle. Direct (non-InTx) calls auto-commit under the
// mutex; InTx snapshots.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{st: newState()}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) InTx(fn func(repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := s.st.clone()
	if err := fn(&txStore{st: clone}); err != nil {
		return err
	}
	s.st = clone
	return nil
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{root: s} }
func (s *Store) Products() repository.ProductRepository           { return &productRepo{root: s} }
func (s *Store) Carts() repository.CartRepository                 { return &cartRepo{root: s} }
func (s *Store) Orders() repository.OrderRepository               { return &orderRepo{root: s} }
func (s *Store) Payments() repository.PaymentRepository           { return &paymentRepo{root: s} }
func (s *Store) Reviews() repository.ReviewRepository             { return &reviewRepo{root: s} }
func (s *Store) SellerRatings() repository.SellerRatingRepository { return &sellerRatingRepo{root: s} }
func (s *Store) Shipments() repository.ShipmentRepository         { return &shipmentRepo{root: s} }
func (s *Store) Payouts() repository.PayoutRepository             { return &payoutRepo{root: s} }
func (s *Store) AuditLogs() repository.AuditLogRepository         { return &auditRepo{root: s} }

// txStore is the transaction-scoped view. The root mutex is already held,
// so access goes straight at the snapshot.
type txStore struct {
	st *state
}

var _ repository.Store = (*txStore)(nil)

// InTx on an already-open transaction just runs in the same scope.
func (s *txStore) InTx(fn func(repository.Store) error) error { return fn(s) }

func (s *txStore) Users() repository.UserRepository                 { return &userRepo{tx: s.st} }
func (s *txStore) Products() repository.ProductRepository           { return &productRepo{tx: s.st} }
func (s *txStore) Carts() repository.CartRepository                 { return &cartRepo{tx: s.st} }
func (s *txStore) Orders() repository.OrderRepository               { return &orderRepo{tx: s.st} }
func (s *txStore) Payments() repository.PaymentRepository           { return &paymentRepo{tx: s.st} }
func (s *txStore) Reviews() repository.ReviewRepository             { return &reviewRepo{tx: s.st} }
func (s *txStore) SellerRatings() repository.SellerRatingRepository { return &sellerRatingRepo{tx: s.st} }
func (s *txStore) Shipments() repository.ShipmentRepository         { return &shipmentRepo{tx: s.st} }
func (s *txStore) Payouts() repository.PayoutRepository             { return &payoutRepo{tx: s.st} }
func (s *txStore) AuditLogs() repository.AuditLogRepository         { return &auditRepo{tx: s.st} }

// access resolves the state a repository call operates on: the transaction
// snapshot if inside InTx, otherwise the live state under the root mutex.
func access(root *Store, tx *state) (*state, func()) {
	if tx != nil {
		return tx, func() {}
	}
	root.mu.Lock()
	return root.st, root.mu.Unlock
}
