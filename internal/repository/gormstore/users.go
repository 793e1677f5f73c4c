package gormstore

import (
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(u *model.User) error {
	return r.db.Create(u).Error
}

func (r *userRepo) FindByID(id uint) (*model.User, error) {
	var u model.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var u model.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) Update(u *model.User) error {
	return r.db.Save(u).Error
}

func (r *userRepo) List(f repository.UserFilter) ([]model.User, error) {
	query := r.db.Order("created_at DESC")
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		query = query.Where("nama ILIKE ? OR email ILIKE ?", like, like)
	}
	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) UpdateRatingStats(sellerID uint, avg *float64, total int) error {
	return r.db.Model(&model.User{}).Where("user_id = ?", sellerID).
		Updates(map[string]interface{}{"avg_rating": avg, "total_ratings": total}).Error
}

func (r *userRepo) Counts() (model.UserCounts, error) {
	var c model.UserCounts
	err := r.db.Model(&model.User{}).Select(
		`COUNT(*) AS total,
		 SUM(CASE WHEN role = 'pembeli' THEN 1 ELSE 0 END) AS pembeli,
		 SUM(CASE WHEN role = 'penjual' THEN 1 ELSE 0 END) AS penjual,
		 SUM(CASE WHEN role = 'kurir' THEN 1 ELSE 0 END) AS kurir,
		 SUM(CASE WHEN verified THEN 1 ELSE 0 END) AS verified`,
	).Scan(&c).Error
	return c, err
}
