package gormstore

import (
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"gorm.io/gorm"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) Create(rv *model.Review) error {
	return r.db.Create(rv).Error
}

func (r *reviewRepo) FindByID(id uint) (*model.Review, error) {
	var rv model.Review
	if err := r.db.First(&rv, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *reviewRepo) FindByOrderItem(itemID, buyerID uint) (*model.Review, error) {
	var rv model.Review
	err := r.db.Where("pesanan_item_id = ? AND pembeli_id = ?", itemID, buyerID).First(&rv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *reviewRepo) ListByProduct(produkID uint, status string) ([]model.Review, error) {
	query := r.db.Where("produk_id = ?", produkID).Order("dibuat_pada DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reviews []model.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepo) List(f repository.ReviewFilter) ([]model.Review, error) {
	query := r.db.Order("dibuat_pada DESC")
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Rating != 0 {
		query = query.Where("rating = ?", f.Rating)
	}
	var reviews []model.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepo) SetStatus(id uint, status string) error {
	res := r.db.Model(&model.Review{}).Where("ulasan_id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type sellerRatingRepo struct {
	db *gorm.DB
}

func (r *sellerRatingRepo) Create(sr *model.SellerRating) error {
	return r.db.Create(sr).Error
}

func (r *sellerRatingRepo) FindByID(id uint) (*model.SellerRating, error) {
	var sr model.SellerRating
	if err := r.db.First(&sr, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sr, nil
}

func (r *sellerRatingRepo) Find(buyerID, orderID, sellerID uint) (*model.SellerRating, error) {
	var sr model.SellerRating
	err := r.db.Where("pembeli_id = ? AND pesanan_id = ? AND penjual_id = ?",
		buyerID, orderID, sellerID).First(&sr).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sr, nil
}

func (r *sellerRatingRepo) Update(sr *model.SellerRating) error {
	return r.db.Save(sr).Error
}

func (r *sellerRatingRepo) SetStatus(id uint, status string) error {
	res := r.db.Model(&model.SellerRating{}).Where("rating_id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sellerRatingRepo) ListActiveBySeller(sellerID uint) ([]model.SellerRating, error) {
	var ratings []model.SellerRating
	err := r.db.Where("penjual_id = ? AND status = ?", sellerID, model.RatingActive).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *sellerRatingRepo) ListBySellerPage(sellerID uint, limit, offset int) ([]model.SellerRating, int64, error) {
	base := r.db.Model(&model.SellerRating{}).
		Where("penjual_id = ? AND status = ?", sellerID, model.RatingActive)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []model.SellerRating
	err := base.Order("dibuat_pada DESC").Limit(limit).Offset(offset).Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}
