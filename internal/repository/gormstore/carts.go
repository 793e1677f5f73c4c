package gormstore

import (
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"gorm.io/gorm"
)

type cartRepo struct {
	db *gorm.DB
}

func (r *cartRepo) FindByBuyer(buyerID uint) (*model.Cart, error) {
	var c model.Cart
	if err := r.db.Where("pembeli_id = ?", buyerID).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *cartRepo) Create(c *model.Cart) error {
	return r.db.Create(c).Error
}

func (r *cartRepo) Items(cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.Where("keranjang_id = ?", cartID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepo) Lines(cartID uint) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := r.db.Table("keranjang_item AS i").
		Select(`i.item_id, i.jumlah, p.produk_id, p.nama_produk, p.harga, p.stok, p.penjual_id,
			COALESCE(u.nama, 'Penjual Tidak Dikenal') AS penjual_nama,
			(i.jumlah * p.harga) AS subtotal`).
		Joins("JOIN produk p ON p.produk_id = i.produk_id AND p.deleted_at IS NULL").
		Joins(`LEFT JOIN "user" u ON u.user_id = p.penjual_id AND u.role = 'penjual'`).
		Where("i.keranjang_id = ?", cartID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepo) FindItem(cartID, produkID uint) (*model.CartItem, error) {
	var it model.CartItem
	err := r.db.Where("keranjang_id = ? AND produk_id = ?", cartID, produkID).First(&it).Error
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *cartRepo) FindItemByID(itemID, cartID uint) (*model.CartItem, error) {
	var it model.CartItem
	err := r.db.Where("item_id = ? AND keranjang_id = ?", itemID, cartID).First(&it).Error
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *cartRepo) CreateItem(it *model.CartItem) error {
	return r.db.Create(it).Error
}

func (r *cartRepo) UpdateItemQty(itemID uint, jumlah int) error {
	return r.db.Model(&model.CartItem{}).Where("item_id = ?", itemID).Update("jumlah", jumlah).Error
}

func (r *cartRepo) DeleteItem(itemID, cartID uint) error {
	return r.db.Where("item_id = ? AND keranjang_id = ?", itemID, cartID).Delete(&model.CartItem{}).Error
}

func (r *cartRepo) ClearItems(cartID uint) error {
	return r.db.Where("keranjang_id = ?", cartID).Delete(&model.CartItem{}).Error
}

func (r *cartRepo) DeleteItemsByProduct(produkID uint) error {
	return r.db.Where("produk_id = ?", produkID).Delete(&model.CartItem{}).Error
}
