package service

import (
	"errors"
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

// ShipmentService manages tracking records. A shipment marked diterima
// closes its parent order, deriving payouts the same way the buyer's own
// confirmation does.
type ShipmentService struct {
	store repository.Store
}

func NewShipmentService(store repository.Store) *ShipmentService {
	return &ShipmentService{store: store}
}

// Create opens the tracking record for an order, at most one per order.
func (s *ShipmentService) Create(courierID, orderID uint, noResi string) (*model.Shipment, error) {
	var sh *model.Shipment
	err := s.store.InTx(func(tx repository.Store) error {
		o, err := tx.Orders().FindByID(orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if existing, err := tx.Shipments().FindByOrder(orderID); err == nil {
			sh = existing
			return nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		status := model.ShipmentProcessing
		if model.NormalizeStatus(string(o.Status)) == model.StatusDikirim {
			status = model.ShipmentShipped
		}
		sh = &model.Shipment{
			PesananID: orderID,
			KurirID:   &courierID,
			NoResi:    noResi,
			Status:    status,
		}
		return tx.Shipments().Create(sh)
	})
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// UpdateStatus moves a shipment along diproses/dikirim/diterima. Only the
// assigned courier (or an admin) may update it; diterima also completes the
// parent order and queues seller payouts if it was still open.
func (s *ShipmentService) UpdateStatus(userID uint, role model.Role, shipmentID uint, status, noResi string) (*model.Shipment, error) {
	var updated *model.Shipment
	err := s.store.InTx(func(tx repository.Store) error {
		sh, err := tx.Shipments().FindByIDForUpdate(shipmentID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if role != model.RoleAdmin && (sh.KurirID == nil || *sh.KurirID != userID) {
			return ErrForbidden
		}
		if sh.Status == model.ShipmentReceived {
			return ErrShipmentAlreadyClosed
		}
		sh.Status = status
		if noResi != "" {
			sh.NoResi = noResi
		}
		if err := tx.Shipments().Update(sh); err != nil {
			return err
		}
		if status == model.ShipmentReceived {
			o, err := tx.Orders().FindByIDForUpdate(sh.PesananID)
			if err != nil {
				return err
			}
			if model.NormalizeStatus(string(o.Status)) != model.StatusSelesai {
				now := time.Now()
				o.Status = model.StatusSelesai
				o.TanggalSelesai = &now
				if err := tx.Orders().Update(o); err != nil {
					return err
				}
				if err := derivePayouts(tx, o.ID); err != nil {
					return err
				}
			}
		}
		updated = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
