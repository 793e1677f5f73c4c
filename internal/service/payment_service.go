package service

import (
	"errors"
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/prometheus"
)

// PaymentService owns the payment ledger. An order has at most one payment
// intent and both intent creation and confirmation are idempotent.
type PaymentService struct {
	store repository.Store
}

func NewPaymentService(store repository.Store) *PaymentService {
	return &PaymentService{store: store}
}

// CreateIntent records a payment intent for the buyer's order. If an intent
// already exists it is returned unchanged with created=false.
func (s *PaymentService) CreateIntent(buyerID, orderID uint, metode string) (p *model.Payment, created bool, err error) {
	err = s.store.InTx(func(tx repository.Store) error {
		o, err := tx.Orders().FindByID(orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if o.PembeliID != buyerID {
			return ErrForbidden
		}
		existing, err := tx.Payments().FindByOrder(orderID)
		if err == nil {
			p = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		p = &model.Payment{
			PesananID: orderID,
			Metode:    metode,
			Status:    model.PaymentUnpaid,
		}
		if err := tx.Payments().Create(p); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		prometheus.RecordPayment(metode, model.PaymentUnpaid)
	}
	return p, created, nil
}

// Confirm marks a payment sudah_dibayar and moves the order from menunggu
// to diproses. Confirming an already-paid payment is a no-op that returns
// the current row; the order transition only fires on the first confirm
// and only when the order is still menunggu.
func (s *PaymentService) Confirm(paymentID uint, reference string) (*model.Payment, error) {
	var confirmed *model.Payment
	var first bool
	err := s.store.InTx(func(tx repository.Store) error {
		p, err := tx.Payments().FindByIDForUpdate(paymentID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if p.Status == model.PaymentPaid {
			confirmed = p
			return nil
		}
		now := time.Now()
		p.Status = model.PaymentPaid
		p.PaidAt = &now
		if reference != "" {
			p.ReferenceGateway = reference
		}
		if err := tx.Payments().Update(p); err != nil {
			return err
		}
		o, err := tx.Orders().FindByIDForUpdate(p.PesananID)
		if err != nil {
			return err
		}
		if model.NormalizeStatus(string(o.Status)) == model.StatusMenunggu {
			o.Status = model.StatusDiproses
			if err := tx.Orders().Update(o); err != nil {
				return err
			}
			prometheus.RecordTransition(string(model.StatusMenunggu), string(model.StatusDiproses))
		}
		confirmed = p
		first = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if first {
		prometheus.RecordPayment(confirmed.Metode, model.PaymentPaid)
	}
	return confirmed, nil
}

// Fail marks an unpaid payment gagal. Paid payments cannot fail.
func (s *PaymentService) Fail(paymentID uint) (*model.Payment, error) {
	var failed *model.Payment
	err := s.store.InTx(func(tx repository.Store) error {
		p, err := tx.Payments().FindByIDForUpdate(paymentID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if p.Status == model.PaymentPaid {
			return ErrInvalidStatusChange
		}
		p.Status = model.PaymentFailed
		if err := tx.Payments().Update(p); err != nil {
			return err
		}
		failed = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordPayment(failed.Metode, model.PaymentFailed)
	return failed, nil
}

// Get returns a payment visible to the caller: buyers see their own orders'
// payments, admins see everything.
func (s *PaymentService) Get(userID uint, role model.Role, paymentID uint) (*model.Payment, error) {
	p, err := s.store.Payments().FindByID(paymentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin {
		o, err := s.store.Orders().FindByID(p.PesananID)
		if err != nil {
			return nil, err
		}
		if o.PembeliID != userID {
			return nil, ErrNotFound
		}
	}
	return p, nil
}

// ListByOrder returns the order's payments for its buyer or an admin.
func (s *PaymentService) ListByOrder(userID uint, role model.Role, orderID uint) ([]model.Payment, error) {
	o, err := s.store.Orders().FindByID(orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && o.PembeliID != userID {
		return nil, ErrNotFound
	}
	return s.store.Payments().ListByOrder(orderID)
}
