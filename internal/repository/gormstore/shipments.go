package gormstore

import (
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shipmentRepo struct {
	db *gorm.DB
}

func (r *shipmentRepo) Create(s *model.Shipment) error {
	return r.db.Create(s).Error
}

func (r *shipmentRepo) FindByID(id uint) (*model.Shipment, error) {
	var s model.Shipment
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *shipmentRepo) FindByIDForUpdate(id uint) (*model.Shipment, error) {
	var s model.Shipment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *shipmentRepo) FindByOrder(orderID uint) (*model.Shipment, error) {
	var s model.Shipment
	if err := r.db.Where("pesanan_id = ?", orderID).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *shipmentRepo) Update(s *model.Shipment) error {
	return r.db.Save(s).Error
}

func (r *shipmentRepo) ListByCourier(courierID uint) ([]model.Shipment, error) {
	var shipments []model.Shipment
	err := r.db.Where("kurir_id = ?", courierID).Order("updated_at DESC").Find(&shipments).Error
	if err != nil {
		return nil, err
	}
	return shipments, nil
}
