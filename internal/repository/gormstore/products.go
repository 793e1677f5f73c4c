package gormstore

import (
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) Create(p *model.Product) error {
	return r.db.Create(p).Error
}

func (r *productRepo) Update(p *model.Product) error {
	return r.db.Save(p).Error
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var p model.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) FindByIDForUpdate(id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) ListActive(f repository.ProductFilter) ([]model.Product, error) {
	query := r.db.Where("status = ?", model.ProductActive)
	if f.Query != "" {
		query = query.Where("nama_produk ILIKE ?", "%"+f.Query+"%")
	}
	if f.MinPrice != nil {
		query = query.Where("harga >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("harga <= ?", *f.MaxPrice)
	}
	var products []model.Product
	if err := query.Order("tanggal_upload DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) ListBySeller(sellerID uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("penjual_id = ?", sellerID).Order("tanggal_upload DESC").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) AdjustStock(id uint, delta int) error {
	return r.db.Model(&model.Product{}).Where("produk_id = ?", id).
		UpdateColumn("stok", gorm.Expr("stok + ?", delta)).Error
}

func (r *productRepo) SetStatus(id uint, status string) error {
	res := r.db.Model(&model.Product{}).Where("produk_id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepo) SoftDelete(id uint) error {
	res := r.db.Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepo) Counts() (total, active int64, err error) {
	if err = r.db.Model(&model.Product{}).Count(&total).Error; err != nil {
		return
	}
	err = r.db.Model(&model.Product{}).Where("status = ?", model.ProductActive).Count(&active).Error
	return
}
