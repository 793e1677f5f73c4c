package gormstore

import (
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

// openStatuses are the non-terminal order statuses, including the legacy
// spellings of the initial state still present in old rows.
var openStatuses = []string{"", "pending", string(model.StatusMenunggu),
	string(model.StatusDiproses), string(model.StatusDikemas), string(model.StatusDikirim)}

func (r *orderRepo) Create(o *model.Order) error {
	return r.db.Create(o).Error
}

func (r *orderRepo) FindByID(id uint) (*model.Order, error) {
	var o model.Order
	if err := r.db.First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepo) FindByIDForUpdate(id uint) (*model.Order, error) {
	var o model.Order
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepo) Update(o *model.Order) error {
	return r.db.Save(o).Error
}

func (r *orderRepo) Items(orderID uint) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.Where("pesanan_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepo) ItemsWithProducts(orderID uint) ([]model.OrderItemDetail, error) {
	var rows []model.OrderItemDetail
	// Joins the product table directly so soft-deleted products remain
	// visible in historical orders.
	err := r.db.Table("pesanan_item AS i").
		Select(`i.pesanan_item_id, i.produk_id, p.nama_produk, COALESCE(p.photo_url, '') AS photo_url,
			i.harga_saat_beli, i.jumlah, i.subtotal, p.penjual_id,
			COALESCE(u.nama, '') AS penjual_nama`).
		Joins("JOIN produk p ON p.produk_id = i.produk_id").
		Joins(`LEFT JOIN "user" u ON u.user_id = p.penjual_id`).
		Where("i.pesanan_id = ?", orderID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *orderRepo) ListByBuyer(buyerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Where("pembeli_id = ?", buyerID).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) ListByBuyerAndStatus(buyerID uint, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Where("pembeli_id = ? AND status_pesanan = ?", buyerID, status).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) ListBySeller(sellerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").
		Where(`pesanan_id IN (SELECT i.pesanan_id FROM pesanan_item i
			JOIN produk p ON p.produk_id = i.produk_id WHERE p.penjual_id = ?)`, sellerID).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) List(f repository.OrderFilter) ([]model.Order, error) {
	query := r.db.Preload("Items").Order("created_at DESC")
	if f.Status != "" {
		query = query.Where("status_pesanan = ?", f.Status)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}
	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) ListCourierDeliveries(courierID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").
		Where("status_pesanan IN ?", []string{
			string(model.StatusDikemas), string(model.StatusDikirim), string(model.StatusSelesai)}).
		Where("kurir_id = ? OR (status_pesanan = ? AND kurir_id IS NULL)", courierID, model.StatusDikemas).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) CountOpenByProduct(produkID uint) (int64, error) {
	var n int64
	err := r.db.Table("pesanan").
		Joins("JOIN pesanan_item i ON i.pesanan_id = pesanan.pesanan_id").
		Where("i.produk_id = ?", produkID).
		Where("pesanan.status_pesanan IN ?", openStatuses).
		Count(&n).Error
	return n, err
}

func (r *orderRepo) CountItemsBySeller(orderID, sellerID uint) (int64, error) {
	var n int64
	err := r.db.Table("pesanan_item AS i").
		Joins("JOIN produk p ON p.produk_id = i.produk_id").
		Where("i.pesanan_id = ? AND p.penjual_id = ?", orderID, sellerID).
		Count(&n).Error
	return n, err
}

func (r *orderRepo) SalesReport(from, to *time.Time) ([]model.SalesRow, error) {
	query := r.db.Table("pesanan").
		Select(`to_char(created_at, 'YYYY-MM-DD') AS tgl, COUNT(*) AS orders, SUM(total_harga) AS total`).
		Where("status_pesanan IN ?", []string{
			string(model.StatusSelesai), string(model.StatusDikirim), string(model.StatusDiproses)})
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}
	var rows []model.SalesRow
	err := query.Group("to_char(created_at, 'YYYY-MM-DD')").Order("tgl DESC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *orderRepo) Counts() (model.OrderCounts, error) {
	var c model.OrderCounts
	err := r.db.Model(&model.Order{}).Select(
		`COUNT(*) AS total,
		 SUM(CASE WHEN status_pesanan IN ('', 'pending', 'menunggu') THEN 1 ELSE 0 END) AS menunggu,
		 SUM(CASE WHEN status_pesanan = 'selesai' THEN 1 ELSE 0 END) AS completed,
		 COALESCE(SUM(CASE WHEN status_pesanan = 'selesai' THEN total_harga ELSE 0 END), 0) AS revenue`,
	).Scan(&c).Error
	return c, err
}
