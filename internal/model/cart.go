package model

import "time"

// Cart is the single active cart per buyer, created lazily on first access.
type Cart struct {
	ID        uint      `json:"keranjang_id" gorm:"primaryKey;column:keranjang_id"`
	PembeliID uint      `json:"pembeli_id" gorm:"column:pembeli_id;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Cart) TableName() string { return "keranjang" }

// CartItem references a product with a positive quantity. Uniqueness of
// (cart, product) is enforced by merging quantities on repeated add.
type CartItem struct {
	ID          uint      `json:"item_id" gorm:"primaryKey;column:item_id"`
	KeranjangID uint      `json:"keranjang_id" gorm:"column:keranjang_id;index;not null"`
	ProdukID    uint      `json:"produk_id" gorm:"column:produk_id;index;not null"`
	Jumlah      int       `json:"jumlah" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CartItem) TableName() string { return "keranjang_item" }

// CartLine is a cart item joined with its live product row, as returned to
// the buyer. Subtotal uses the current price; the snapshot only happens at
// checkout.
type CartLine struct {
	ItemID      uint    `json:"item_id"`
	Jumlah      int     `json:"jumlah"`
	ProdukID    uint    `json:"produk_id"`
	NamaProduk  string  `json:"nama_produk"`
	Harga       float64 `json:"harga"`
	Stok        int     `json:"stok"`
	PenjualID   uint    `json:"penjual_id"`
	PenjualNama string  `json:"penjual_nama"`
	Subtotal    float64 `json:"subtotal"`
}
