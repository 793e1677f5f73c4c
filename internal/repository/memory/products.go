package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"gorm.io/gorm"
)

type productRepo struct {
	root *Store
	tx   *state
}

func (r *productRepo) Create(p *model.Product) error {
	st, done := access(r.root, r.tx)
	defer done()
	if p.ID == 0 {
		p.ID = st.nextID("produk")
	}
	if p.TanggalUpload.IsZero() {
		p.TanggalUpload = time.Now()
	}
	st.products[p.ID] = *p
	return nil
}

func (r *productRepo) Update(p *model.Product) error {
	st, done := access(r.root, r.tx)
	defer done()
	if _, ok := st.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	st.products[p.ID] = *p
	return nil
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	st, done := access(r.root, r.tx)
	defer done()
	p, ok := st.products[id]
	if !ok || p.DeletedAt.Valid {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// FindByIDForUpdate behaves like FindByID; the store mutex already
// serializes the surrounding transaction.
func (r *productRepo) FindByIDForUpdate(id uint) (*model.Product, error) {
	return r.FindByID(id)
}

func (r *productRepo) ListActive(f repository.ProductFilter) ([]model.Product, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.Product
	for _, p := range st.products {
		if p.DeletedAt.Valid || p.Status != model.ProductActive {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(p.NamaProduk), strings.ToLower(f.Query)) {
			continue
		}
		if f.MinPrice != nil && p.Harga < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Harga > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *productRepo) ListBySeller(sellerID uint) ([]model.Product, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.Product
	for _, p := range st.products {
		if !p.DeletedAt.Valid && p.PenjualID == sellerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *productRepo) AdjustStock(id uint, delta int) error {
	st, done := access(r.root, r.tx)
	defer done()
	p, ok := st.products[id]
	if !ok || p.DeletedAt.Valid {
		return repository.ErrNotFound
	}
	p.Stok += delta
	st.products[id] = p
	return nil
}

func (r *productRepo) SetStatus(id uint, status string) error {
	st, done := access(r.root, r.tx)
	defer done()
	p, ok := st.products[id]
	if !ok || p.DeletedAt.Valid {
		return repository.ErrNotFound
	}
	p.Status = status
	st.products[id] = p
	return nil
}

func (r *productRepo) SoftDelete(id uint) error {
	st, done := access(r.root, r.tx)
	defer done()
	p, ok := st.products[id]
	if !ok || p.DeletedAt.Valid {
		return repository.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	st.products[id] = p
	return nil
}

func (r *productRepo) Counts() (total, active int64, err error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, p := range st.products {
		if p.DeletedAt.Valid {
			continue
		}
		total++
		if p.Status == model.ProductActive {
			active++
		}
	}
	return total, active, nil
}
