package model

import (
	"time"
)

// User represents a marketplace account. The same table backs all four
// roles; avg_rating/total_ratings are the denormalized seller aggregates
// maintained by the rating service.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;column:user_id"`
	Nama         string    `json:"nama" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null"`
	Verified     bool      `json:"verified" gorm:"default:false"`
	NoTlp        string    `json:"no_tlp,omitempty" gorm:"type:varchar(30);column:no_tlp"`
	Alamat       string    `json:"alamat,omitempty" gorm:"type:text"`
	AvatarURL    string    `json:"avatar_url,omitempty" gorm:"type:varchar(255);column:avatar_url"`
	AvgRating    *float64  `json:"avg_rating,omitempty" gorm:"column:avg_rating"`
	TotalRatings int       `json:"total_ratings" gorm:"column:total_ratings;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName keeps the historical singular table name.
func (User) TableName() string { return "user" }
