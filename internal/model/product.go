package model

import (
	"time"

	"gorm.io/gorm"
)

// Product statuses. A nonaktif product is hidden from the public catalog but
// still visible to its seller; a soft-deleted one is invisible everywhere
// except historical order joins.
const (
	ProductActive   = "aktif"
	ProductInactive = "nonaktif"
)

// Product is a catalog row owned by one seller. Stok is the authoritative
// stock counter and is only mutated inside order-engine transactions.
type Product struct {
	ID          uint           `json:"produk_id" gorm:"primaryKey;column:produk_id"`
	PenjualID   uint           `json:"penjual_id" gorm:"column:penjual_id;index;not null"`
	KategoriID  *uint          `json:"kategori_id,omitempty" gorm:"column:kategori_id"`
	NamaProduk  string         `json:"nama_produk" gorm:"type:varchar(255);column:nama_produk;not null"`
	Deskripsi   string         `json:"deskripsi,omitempty" gorm:"type:text"`
	Harga       float64        `json:"harga" gorm:"not null"`
	HargaModal  *float64       `json:"harga_modal,omitempty" gorm:"column:harga_modal"`
	Stok        int            `json:"stok" gorm:"default:0"`
	Satuan      string         `json:"satuan,omitempty" gorm:"type:varchar(20)"`
	Status      string         `json:"status" gorm:"type:varchar(20);default:'aktif'"`
	PhotoURL    string         `json:"photo_url,omitempty" gorm:"type:varchar(255);column:photo_url"`
	TanggalUpload time.Time    `json:"tanggal_upload" gorm:"column:tanggal_upload;autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName keeps the historical singular table name.
func (Product) TableName() string { return "produk" }
