package gormstore

import (
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"gorm.io/gorm"
)

type payoutRepo struct {
	db *gorm.DB
}

func (r *payoutRepo) Create(p *model.Payout) error {
	return r.db.Create(p).Error
}

func (r *payoutRepo) List(status string) ([]model.Payout, error) {
	query := r.db.Order("payout_id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var payouts []model.Payout
	if err := query.Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

type auditRepo struct {
	db *gorm.DB
}

func (r *auditRepo) Append(entry *model.AuditLog) error {
	return r.db.Create(entry).Error
}
