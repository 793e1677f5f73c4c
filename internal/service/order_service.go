package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
	"github.com/Thesarss/Lautan-Kita/prometheus"
)

// OrderService turns carts into orders and drives them through the status
// lifecycle. Every mutation runs inside a store transaction so stock,
// order rows and derived records move together.
type OrderService struct {
	store repository.Store
}

func NewOrderService(store repository.Store) *OrderService {
	return &OrderService{store: store}
}

// Checkout converts the buyer's cart into an order. Product rows are locked
// for the duration of the transaction, prices are snapshotted per line and
// stock is decremented in the same transaction that clears the cart. Any
// failure leaves cart and stock untouched.
func (s *OrderService) Checkout(buyerID uint, alamatKirim string) (*model.Order, error) {
	var created *model.Order
	err := s.store.InTx(func(tx repository.Store) error {
		cart, err := tx.Carts().FindByBuyer(buyerID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCartEmpty
		}
		if err != nil {
			return err
		}
		items, err := tx.Carts().Items(cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		var total float64
		orderItems := make([]model.OrderItem, 0, len(items))
		for _, it := range items {
			p, err := tx.Products().FindByIDForUpdate(it.ProdukID)
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductMissing
			}
			if err != nil {
				return err
			}
			if p.Stok < it.Jumlah {
				return &InsufficientStockError{
					ProdukID:   p.ID,
					NamaProduk: p.NamaProduk,
					Tersedia:   p.Stok,
					Diminta:    it.Jumlah,
				}
			}
			subtotal := p.Harga * float64(it.Jumlah)
			total += subtotal
			orderItems = append(orderItems, model.OrderItem{
				ProdukID:      p.ID,
				HargaSaatBeli: p.Harga,
				Jumlah:        it.Jumlah,
				Subtotal:      subtotal,
			})
		}

		order := &model.Order{
			PembeliID:   buyerID,
			AlamatKirim: alamatKirim,
			TotalHarga:  total,
			Status:      model.StatusMenunggu,
			Items:       orderItems,
		}
		if err := tx.Orders().Create(order); err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.Products().AdjustStock(it.ProdukID, -it.Jumlah); err != nil {
				return err
			}
		}
		if err := tx.Carts().ClearItems(cart.ID); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		prometheus.RecordCheckout(checkoutResult(err))
		return nil, err
	}
	prometheus.RecordCheckout("ok")
	logger.GetLogger().Info("checkout completed",
		zap.Uint("pembeli_id", buyerID),
		zap.Uint("pesanan_id", created.ID),
		zap.Float64("total_harga", created.TotalHarga))
	return created, nil
}

func checkoutResult(err error) string {
	var stockErr *InsufficientStockError
	switch {
	case errors.Is(err, ErrCartEmpty):
		return "empty_cart"
	case errors.As(err, &stockErr):
		return "out_of_stock"
	default:
		return "error"
	}
}

// Cancel cancels the buyer's own order while it is still menunggu and
// restores the reserved stock.
func (s *OrderService) Cancel(buyerID, orderID uint) (*model.Order, error) {
	return s.transition(orderID, model.EventCancel, model.RoleBuyer, ErrOrderNotCancelable,
		func(tx repository.Store, o *model.Order) error {
			if o.PembeliID != buyerID {
				return ErrForbidden
			}
			return nil
		})
}

// Pack marks the order dikemas. Only a seller with at least one item in
// the order may pack it.
func (s *OrderService) Pack(sellerID, orderID uint) (*model.Order, error) {
	return s.transition(orderID, model.EventPack, model.RoleSeller, ErrOrderNotPackable,
		func(tx repository.Store, o *model.Order) error {
			n, err := tx.Orders().CountItemsBySeller(o.ID, sellerID)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrForbidden
			}
			return nil
		})
}

// Ship lets a courier claim a packed order and mark it dikirim. The first
// courier to commit wins; a second claim attempt conflicts on the stored
// kurir_id.
func (s *OrderService) Ship(courierID, orderID uint) (*model.Order, error) {
	return s.transition(orderID, model.EventShip, model.RoleCourier, ErrOrderNotShippable,
		func(tx repository.Store, o *model.Order) error {
			if o.KurirID != nil && *o.KurirID != courierID {
				return ErrOrderAlreadyClaimed
			}
			o.KurirID = &courierID
			return nil
		})
}

// Deliver marks the order selesai on behalf of the courier who claimed it.
func (s *OrderService) Deliver(courierID, orderID uint, catatan string) (*model.Order, error) {
	return s.transition(orderID, model.EventDeliver, model.RoleCourier, ErrOrderNotInTransit,
		func(tx repository.Store, o *model.Order) error {
			if o.KurirID == nil || *o.KurirID != courierID {
				return ErrForbidden
			}
			if catatan != "" {
				o.CatatanKurir = catatan
			}
			return nil
		})
}

// Complete lets the buyer confirm receipt of an order in transit.
func (s *OrderService) Complete(buyerID, orderID uint) (*model.Order, error) {
	return s.transition(orderID, model.EventComplete, model.RoleBuyer, ErrOrderNotInTransit,
		func(tx repository.Store, o *model.Order) error {
			if o.PembeliID != buyerID {
				return ErrForbidden
			}
			return nil
		})
}

// UpdateLocation records the courier's latest position for an order they
// are delivering.
func (s *OrderService) UpdateLocation(courierID, orderID uint, lokasi string) (*model.Order, error) {
	var updated *model.Order
	err := s.store.InTx(func(tx repository.Store) error {
		o, err := tx.Orders().FindByIDForUpdate(orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if o.KurirID == nil || *o.KurirID != courierID {
			return ErrForbidden
		}
		if model.NormalizeStatus(string(o.Status)) != model.StatusDikirim {
			return ErrOrderNotInTransit
		}
		o.LokasiTerakhir = lokasi
		if err := tx.Orders().Update(o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ForceStatus is the admin override: any target status is accepted, stock
// is restored when the move lands on dibatalkan and payouts are derived
// when it lands on selesai. The change is written to the audit log in the
// same transaction.
func (s *OrderService) ForceStatus(adminID, orderID uint, target model.OrderStatus) (*model.Order, error) {
	var updated *model.Order
	err := s.store.InTx(func(tx repository.Store) error {
		o, err := tx.Orders().FindByIDForUpdate(orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		prev := o.Status
		if model.ReleasesStock(prev, target) {
			if err := releaseStock(tx, o.ID); err != nil {
				return err
			}
		}
		if target == model.StatusSelesai && model.NormalizeStatus(string(prev)) != model.StatusSelesai {
			now := time.Now()
			o.TanggalSelesai = &now
			if err := derivePayouts(tx, o.ID); err != nil {
				return err
			}
		}
		o.Status = target
		if err := tx.Orders().Update(o); err != nil {
			return err
		}
		if err := tx.AuditLogs().Append(&model.AuditLog{
			ActorUserID: adminID,
			Action:      "order_status_update",
			EntityType:  "pesanan",
			EntityID:    o.ID,
			Metadata:    fmt.Sprintf(`{"from":%q,"to":%q}`, prev, target),
		}); err != nil {
			return err
		}
		prometheus.RecordTransition(string(model.NormalizeStatus(string(prev))), string(target))
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// transition runs one lifecycle event: lock the order, run the check (which
// may also mutate courier fields), compute the next status, then apply
// timestamps, stock release and payout derivation that the move implies.
func (s *OrderService) transition(orderID uint, ev model.OrderEvent, role model.Role, conflictErr error, check func(repository.Store, *model.Order) error) (*model.Order, error) {
	var updated *model.Order
	err := s.store.InTx(func(tx repository.Store) error {
		o, err := tx.Orders().FindByIDForUpdate(orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := check(tx, o); err != nil {
			return err
		}
		prev := o.Status
		next, err := model.Transition(o.Status, ev, role)
		if err != nil {
			if errors.Is(err, model.ErrInvalidTransition) {
				return conflictErr
			}
			return ErrForbidden
		}
		if model.ReleasesStock(prev, next) {
			if err := releaseStock(tx, o.ID); err != nil {
				return err
			}
		}
		now := time.Now()
		switch next {
		case model.StatusDikemas:
			o.TanggalDikemas = &now
		case model.StatusDikirim:
			o.TanggalDikirim = &now
		case model.StatusSelesai:
			o.TanggalSelesai = &now
			if err := derivePayouts(tx, o.ID); err != nil {
				return err
			}
		}
		o.Status = next
		if err := tx.Orders().Update(o); err != nil {
			return err
		}
		prometheus.RecordTransition(string(model.NormalizeStatus(string(prev))), string(next))
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.GetLogger().Info("order status changed",
		zap.Uint("pesanan_id", updated.ID),
		zap.String("event", ev.String()),
		zap.String("status", string(updated.Status)))
	return updated, nil
}

// releaseStock restores the quantities reserved by the order's line items.
// Cancellation reads the snapshot rows, not the cart, so stock conservation
// holds even after the cart changed.
func releaseStock(tx repository.Store, orderID uint) error {
	items, err := tx.Orders().Items(orderID)
	if err != nil {
		return err
	}
	for _, it := range items {
		// Snapshot rows always carry positive quantities; anything else is a
		// corrupted row and must not turn into a stock grant.
		if it.Jumlah <= 0 {
			return fmt.Errorf("pesanan %d: invalid item quantity %d", orderID, it.Jumlah)
		}
		if err := tx.Products().AdjustStock(it.ProdukID, it.Jumlah); err != nil {
			return err
		}
	}
	return nil
}

// derivePayouts queues one disbursement per distinct seller in the order,
// amount being the sum of that seller's line subtotals. Called exactly once
// per order, guarded by the selesai transition.
func derivePayouts(tx repository.Store, orderID uint) error {
	details, err := tx.Orders().ItemsWithProducts(orderID)
	if err != nil {
		return err
	}
	amounts := make(map[uint]float64)
	sellers := make([]uint, 0, len(details))
	for _, d := range details {
		if _, ok := amounts[d.PenjualID]; !ok {
			sellers = append(sellers, d.PenjualID)
		}
		amounts[d.PenjualID] += d.Subtotal
	}
	for _, sellerID := range sellers {
		p := &model.Payout{
			PenjualID: sellerID,
			PesananID: orderID,
			Amount:    amounts[sellerID],
			Status:    model.PayoutQueued,
		}
		if err := tx.Payouts().Create(p); err != nil {
			return err
		}
	}
	return nil
}
