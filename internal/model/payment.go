package model

import (
	"fmt"
	"time"
)

// Payment statuses.
const (
	PaymentUnpaid = "belum_dibayar"
	PaymentPaid   = "sudah_dibayar"
	PaymentFailed = "gagal"
)

// ParsePaymentMethod validates the supported payment rails.
func ParsePaymentMethod(s string) (string, error) {
	switch s {
	case "BNI", "BCA", "Mandiri", "COD":
		return s, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Payment records the single payment intent for an order. Call sites treat
// it as 0..1 per order; CreateIntent returns the existing row instead of
// duplicating it.
type Payment struct {
	ID               uint       `json:"pembayaran_id" gorm:"primaryKey;column:pembayaran_id"`
	PesananID        uint       `json:"pesanan_id" gorm:"column:pesanan_id;index;not null"`
	Metode           string     `json:"metode" gorm:"type:varchar(20);not null"`
	Status           string     `json:"status_pembayaran" gorm:"type:varchar(20);column:status_pembayaran;default:'belum_dibayar'"`
	PaidAt           *time.Time `json:"paid_at,omitempty" gorm:"column:paid_at"`
	ReferenceGateway string     `json:"reference_gateway,omitempty" gorm:"type:varchar(100);column:reference_gateway"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (Payment) TableName() string { return "pembayaran" }
