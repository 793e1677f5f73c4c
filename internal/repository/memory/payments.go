package memory

import (
	"sort"
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

type paymentRepo struct {
	root *Store
	tx   *state
}

func (r *paymentRepo) Create(p *model.Payment) error {
	st, done := access(r.root, r.tx)
	defer done()
	if p.ID == 0 {
		p.ID = st.nextID("pembayaran")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	st.payments[p.ID] = *p
	return nil
}

func (r *paymentRepo) FindByID(id uint) (*model.Payment, error) {
	st, done := access(r.root, r.tx)
	defer done()
	p, ok := st.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *paymentRepo) FindByIDForUpdate(id uint) (*model.Payment, error) {
	return r.FindByID(id)
}

func (r *paymentRepo) FindByOrder(orderID uint) (*model.Payment, error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, p := range st.payments {
		if p.PesananID == orderID {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *paymentRepo) Update(p *model.Payment) error {
	st, done := access(r.root, r.tx)
	defer done()
	if _, ok := st.payments[p.ID]; !ok {
		return repository.ErrNotFound
	}
	st.payments[p.ID] = *p
	return nil
}

func (r *paymentRepo) ListByOrder(orderID uint) ([]model.Payment, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.Payment
	for _, p := range st.payments {
		if p.PesananID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *paymentRepo) List(f repository.PaymentFilter) ([]model.Payment, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.Payment
	for _, p := range st.payments {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.From != nil && p.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && p.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *paymentRepo) Counts() (total, confirmed int64, err error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, p := range st.payments {
		total++
		if p.Status == model.PaymentPaid {
			confirmed++
		}
	}
	return total, confirmed, nil
}
