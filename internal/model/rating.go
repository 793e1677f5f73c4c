package model

import (
	"math"
	"time"
)

// Rating visibility statuses, shared by product reviews and seller ratings.
const (
	RatingActive = "aktif"
	RatingHidden = "disembunyikan"
)

// Review is a product review tied to one order item. One per
// (pembeli, pesanan_item), only for completed orders.
type Review struct {
	ID            uint      `json:"ulasan_id" gorm:"primaryKey;column:ulasan_id"`
	ProdukID      uint      `json:"produk_id" gorm:"column:produk_id;index;not null"`
	PembeliID     uint      `json:"pembeli_id" gorm:"column:pembeli_id;index;not null"`
	PesananItemID uint      `json:"pesanan_item_id" gorm:"column:pesanan_item_id;index;not null"`
	Rating        int       `json:"rating" gorm:"not null"`
	Komentar      string    `json:"komentar,omitempty" gorm:"type:varchar(500)"`
	Status        string    `json:"status" gorm:"type:varchar(20);default:'aktif'"`
	DibuatPada    time.Time `json:"dibuat_pada" gorm:"column:dibuat_pada;autoCreateTime"`
}

func (Review) TableName() string { return "ulasan" }

// SellerRating is a buyer's rating of a seller for one order. One per
// (pembeli, pesanan, penjual).
type SellerRating struct {
	ID         uint      `json:"rating_id" gorm:"primaryKey;column:rating_id"`
	PenjualID  uint      `json:"penjual_id" gorm:"column:penjual_id;index;not null"`
	PembeliID  uint      `json:"pembeli_id" gorm:"column:pembeli_id;index;not null"`
	PesananID  uint      `json:"pesanan_id" gorm:"column:pesanan_id;index;not null"`
	Rating     int       `json:"rating" gorm:"not null"`
	Komentar   string    `json:"komentar,omitempty" gorm:"type:varchar(1000)"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'aktif'"`
	DibuatPada time.Time `json:"dibuat_pada" gorm:"column:dibuat_pada;autoCreateTime"`
}

func (SellerRating) TableName() string { return "rating_penjual" }

// RatingStats fully recomputes a seller's aggregate from all active ratings.
// Recompute-on-write keeps the denormalized counters consistent after edits
// and moderation; hidden ratings are excluded by the caller's query. The
// average is rounded to two decimals like the stored column.
func RatingStats(ratings []SellerRating) (avg *float64, total int) {
	if len(ratings) == 0 {
		return nil, 0
	}
	var sum int
	for _, r := range ratings {
		sum += r.Rating
	}
	a := math.Round(float64(sum)/float64(len(ratings))*100) / 100
	return &a, len(ratings)
}
