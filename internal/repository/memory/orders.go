package memory

import (
	"sort"
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

type orderRepo struct {
	root *Store
	tx   *state
}

func isOpenStatus(s model.OrderStatus) bool {
	switch model.NormalizeStatus(string(s)) {
	case model.StatusMenunggu, model.StatusDiproses, model.StatusDikemas, model.StatusDikirim:
		return true
	}
	return false
}

func (r *orderRepo) Create(o *model.Order) error {
	st, done := access(r.root, r.tx)
	defer done()
	if o.ID == 0 {
		o.ID = st.nextID("pesanan")
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	for i := range o.Items {
		it := o.Items[i]
		if it.ID == 0 {
			it.ID = st.nextID("pesanan_item")
		}
		it.PesananID = o.ID
		o.Items[i] = it
		st.orderItems[it.ID] = it
	}
	stored := *o
	stored.Items = nil
	st.orders[o.ID] = stored
	return nil
}

func (r *orderRepo) find(st *state, id uint) (model.Order, bool) {
	o, ok := st.orders[id]
	return o, ok
}

func (r *orderRepo) FindByID(id uint) (*model.Order, error) {
	st, done := access(r.root, r.tx)
	defer done()
	o, ok := r.find(st, id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *orderRepo) FindByIDForUpdate(id uint) (*model.Order, error) {
	return r.FindByID(id)
}

func (r *orderRepo) Update(o *model.Order) error {
	st, done := access(r.root, r.tx)
	defer done()
	if _, ok := st.orders[o.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *o
	stored.Items = nil
	st.orders[o.ID] = stored
	return nil
}

func (r *orderRepo) itemsOf(st *state, orderID uint) []model.OrderItem {
	var out []model.OrderItem
	for _, it := range st.orderItems {
		if it.PesananID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *orderRepo) Items(orderID uint) ([]model.OrderItem, error) {
	st, done := access(r.root, r.tx)
	defer done()
	return r.itemsOf(st, orderID), nil
}

func (r *orderRepo) ItemsWithProducts(orderID uint) ([]model.OrderItemDetail, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.OrderItemDetail
	for _, it := range r.itemsOf(st, orderID) {
		// Soft-deleted products stay joinable for order history.
		p := st.products[it.ProdukID]
		var sellerName string
		if u, ok := st.users[p.PenjualID]; ok {
			sellerName = u.Nama
		}
		out = append(out, model.OrderItemDetail{
			PesananItemID: it.ID,
			ProdukID:      it.ProdukID,
			NamaProduk:    p.NamaProduk,
			PhotoURL:      p.PhotoURL,
			HargaSaatBeli: it.HargaSaatBeli,
			Jumlah:        it.Jumlah,
			Subtotal:      it.Subtotal,
			PenjualID:     p.PenjualID,
			PenjualNama:   sellerName,
		})
	}
	return out, nil
}

func (r *orderRepo) collect(st *state, keep func(model.Order) bool) []model.Order {
	var out []model.Order
	for _, o := range st.orders {
		if keep(o) {
			o.Items = r.itemsOf(st, o.ID)
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *orderRepo) ListByBuyer(buyerID uint) ([]model.Order, error) {
	st, done := access(r.root, r.tx)
	defer done()
	return r.collect(st, func(o model.Order) bool { return o.PembeliID == buyerID }), nil
}

func (r *orderRepo) ListByBuyerAndStatus(buyerID uint, status model.OrderStatus) ([]model.Order, error) {
	st, done := access(r.root, r.tx)
	defer done()
	return r.collect(st, func(o model.Order) bool {
		return o.PembeliID == buyerID && o.Status == status
	}), nil
}

func (r *orderRepo) ListBySeller(sellerID uint) ([]model.Order, error) {
	st, done := access(r.root, r.tx)
	defer done()
	return r.collect(st, func(o model.Order) bool {
		for _, it := range r.itemsOf(st, o.ID) {
			if p, ok := st.products[it.ProdukID]; ok && p.PenjualID == sellerID {
				return true
			}
		}
		return false
	}), nil
}

func (r *orderRepo) List(f repository.OrderFilter) ([]model.Order, error) {
	st, done := access(r.root, r.tx)
	defer done()
	return r.collect(st, func(o model.Order) bool {
		if f.Status != "" && string(o.Status) != f.Status {
			return false
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			return false
		}
		return true
	}), nil
}

func (r *orderRepo) ListCourierDeliveries(courierID uint) ([]model.Order, error) {
	st, done := access(r.root, r.tx)
	defer done()
	return r.collect(st, func(o model.Order) bool {
		switch o.Status {
		case model.StatusDikemas, model.StatusDikirim, model.StatusSelesai:
		default:
			return false
		}
		if o.KurirID != nil && *o.KurirID == courierID {
			return true
		}
		return o.Status == model.StatusDikemas && o.KurirID == nil
	}), nil
}

func (r *orderRepo) CountOpenByProduct(produkID uint) (int64, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var n int64
	for _, it := range st.orderItems {
		if it.ProdukID != produkID {
			continue
		}
		if o, ok := st.orders[it.PesananID]; ok && isOpenStatus(o.Status) {
			n++
		}
	}
	return n, nil
}

func (r *orderRepo) CountItemsBySeller(orderID, sellerID uint) (int64, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var n int64
	for _, it := range r.itemsOf(st, orderID) {
		if p, ok := st.products[it.ProdukID]; ok && p.PenjualID == sellerID {
			n++
		}
	}
	return n, nil
}

func (r *orderRepo) SalesReport(from, to *time.Time) ([]model.SalesRow, error) {
	st, done := access(r.root, r.tx)
	defer done()
	byDay := map[string]*model.SalesRow{}
	for _, o := range st.orders {
		switch o.Status {
		case model.StatusSelesai, model.StatusDikirim, model.StatusDiproses:
		default:
			continue
		}
		if from != nil && o.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && o.CreatedAt.After(*to) {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			row = &model.SalesRow{Tgl: day}
			byDay[day] = row
		}
		row.Orders++
		row.Total += o.TotalHarga
	}
	var out []model.SalesRow
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tgl > out[j].Tgl })
	return out, nil
}

func (r *orderRepo) Counts() (model.OrderCounts, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var c model.OrderCounts
	for _, o := range st.orders {
		c.Total++
		if model.NormalizeStatus(string(o.Status)) == model.StatusMenunggu {
			c.Menunggu++
		}
		if o.Status == model.StatusSelesai {
			c.Completed++
			c.Revenue += o.TotalHarga
		}
	}
	return c, nil
}
