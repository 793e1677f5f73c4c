package memory

import (
	"sort"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

type cartRepo struct {
	root *Store
	tx   *state
}

func (r *cartRepo) FindByBuyer(buyerID uint) (*model.Cart, error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, c := range st.carts {
		if c.PembeliID == buyerID {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cartRepo) Create(c *model.Cart) error {
	st, done := access(r.root, r.tx)
	defer done()
	if c.ID == 0 {
		c.ID = st.nextID("keranjang")
	}
	st.carts[c.ID] = *c
	return nil
}

func (r *cartRepo) Items(cartID uint) ([]model.CartItem, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.CartItem
	for _, it := range st.cartItems {
		if it.KeranjangID == cartID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *cartRepo) Lines(cartID uint) ([]model.CartLine, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.CartLine
	for _, it := range st.cartItems {
		if it.KeranjangID != cartID {
			continue
		}
		p, ok := st.products[it.ProdukID]
		if !ok || p.DeletedAt.Valid {
			continue
		}
		sellerName := "Penjual Tidak Dikenal"
		if u, ok := st.users[p.PenjualID]; ok && u.Role == model.RoleSeller {
			sellerName = u.Nama
		}
		out = append(out, model.CartLine{
			ItemID:      it.ID,
			Jumlah:      it.Jumlah,
			ProdukID:    p.ID,
			NamaProduk:  p.NamaProduk,
			Harga:       p.Harga,
			Stok:        p.Stok,
			PenjualID:   p.PenjualID,
			PenjualNama: sellerName,
			Subtotal:    float64(it.Jumlah) * p.Harga,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r *cartRepo) FindItem(cartID, produkID uint) (*model.CartItem, error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, it := range st.cartItems {
		if it.KeranjangID == cartID && it.ProdukID == produkID {
			it := it
			return &it, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cartRepo) FindItemByID(itemID, cartID uint) (*model.CartItem, error) {
	st, done := access(r.root, r.tx)
	defer done()
	it, ok := st.cartItems[itemID]
	if !ok || it.KeranjangID != cartID {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (r *cartRepo) CreateItem(it *model.CartItem) error {
	st, done := access(r.root, r.tx)
	defer done()
	if it.ID == 0 {
		it.ID = st.nextID("keranjang_item")
	}
	st.cartItems[it.ID] = *it
	return nil
}

func (r *cartRepo) UpdateItemQty(itemID uint, jumlah int) error {
	st, done := access(r.root, r.tx)
	defer done()
	it, ok := st.cartItems[itemID]
	if !ok {
		return repository.ErrNotFound
	}
	it.Jumlah = jumlah
	st.cartItems[itemID] = it
	return nil
}

func (r *cartRepo) DeleteItem(itemID, cartID uint) error {
	st, done := access(r.root, r.tx)
	defer done()
	if it, ok := st.cartItems[itemID]; ok && it.KeranjangID == cartID {
		delete(st.cartItems, itemID)
	}
	return nil
}

func (r *cartRepo) ClearItems(cartID uint) error {
	st, done := access(r.root, r.tx)
	defer done()
	for id, it := range st.cartItems {
		if it.KeranjangID == cartID {
			delete(st.cartItems, id)
		}
	}
	return nil
}

func (r *cartRepo) DeleteItemsByProduct(produkID uint) error {
	st, done := access(r.root, r.tx)
	defer done()
	for id, it := range st.cartItems {
		if it.ProdukID == produkID {
			delete(st.cartItems, id)
		}
	}
	return nil
}
