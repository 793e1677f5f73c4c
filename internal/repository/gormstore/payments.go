package gormstore

import (
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepo struct {
	db *gorm.DB
}

func (r *paymentRepo) Create(p *model.Payment) error {
	return r.db.Create(p).Error
}

func (r *paymentRepo) FindByID(id uint) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *paymentRepo) FindByIDForUpdate(id uint) (*model.Payment, error) {
	var p model.Payment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *paymentRepo) FindByOrder(orderID uint) (*model.Payment, error) {
	var p model.Payment
	if err := r.db.Where("pesanan_id = ?", orderID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *paymentRepo) Update(p *model.Payment) error {
	return r.db.Save(p).Error
}

func (r *paymentRepo) ListByOrder(orderID uint) ([]model.Payment, error) {
	var payments []model.Payment
	if err := r.db.Where("pesanan_id = ?", orderID).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) List(f repository.PaymentFilter) ([]model.Payment, error) {
	query := r.db.Order("created_at DESC")
	if f.Status != "" {
		query = query.Where("status_pembayaran = ?", f.Status)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}
	var payments []model.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepo) Counts() (total, confirmed int64, err error) {
	if err = r.db.Model(&model.Payment{}).Count(&total).Error; err != nil {
		return
	}
	err = r.db.Model(&model.Payment{}).Where("status_pembayaran = ?", model.PaymentPaid).Count(&confirmed).Error
	return
}
