package memory

import (
	"sort"
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

type shipmentRepo struct {
	root *Store
	tx   *state
}

func (r *shipmentRepo) Create(s *model.Shipment) error {
	st, done := access(r.root, r.tx)
	defer done()
	if s.ID == 0 {
		s.ID = st.nextID("pengiriman")
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	st.shipments[s.ID] = *s
	return nil
}

func (r *shipmentRepo) FindByID(id uint) (*model.Shipment, error) {
	st, done := access(r.root, r.tx)
	defer done()
	s, ok := st.shipments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *shipmentRepo) FindByIDForUpdate(id uint) (*model.Shipment, error) {
	return r.FindByID(id)
}

func (r *shipmentRepo) FindByOrder(orderID uint) (*model.Shipment, error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, s := range st.shipments {
		if s.PesananID == orderID {
			s := s
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *shipmentRepo) Update(s *model.Shipment) error {
	st, done := access(r.root, r.tx)
	defer done()
	if _, ok := st.shipments[s.ID]; !ok {
		return repository.ErrNotFound
	}
	s.UpdatedAt = time.Now()
	st.shipments[s.ID] = *s
	return nil
}

func (r *shipmentRepo) ListByCourier(courierID uint) ([]model.Shipment, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.Shipment
	for _, s := range st.shipments {
		if s.KurirID != nil && *s.KurirID == courierID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type payoutRepo struct {
	root *Store
	tx   *state
}

func (r *payoutRepo) Create(p *model.Payout) error {
	st, done := access(r.root, r.tx)
	defer done()
	if p.ID == 0 {
		p.ID = st.nextID("payout")
	}
	if p.ScheduledAt.IsZero() {
		p.ScheduledAt = time.Now()
	}
	st.payouts[p.ID] = *p
	return nil
}

func (r *payoutRepo) List(status string) ([]model.Payout, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.Payout
	for _, p := range st.payouts {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type auditRepo struct {
	root *Store
	tx   *state
}

func (r *auditRepo) Append(entry *model.AuditLog) error {
	st, done := access(r.root, r.tx)
	defer done()
	if entry.ID == 0 {
		entry.ID = st.nextID("audit_log")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	st.audits[entry.ID] = *entry
	return nil
}
