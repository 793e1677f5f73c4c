package model

import "time"

// Payout statuses.
const (
	PayoutQueued     = "queued"
	PayoutProcessing = "processing"
	PayoutSettled    = "settled"
	PayoutFailed     = "failed"
)

// Payout is a seller disbursement derived when an order completes: one
// queued row per distinct seller, amount = sum of that seller's item
// subtotals in the order.
type Payout struct {
	ID          uint       `json:"payout_id" gorm:"primaryKey;column:payout_id"`
	PenjualID   uint       `json:"penjual_id" gorm:"column:penjual_id;index;not null"`
	PesananID   uint       `json:"pesanan_id" gorm:"column:pesanan_id;index;not null"`
	Amount      float64    `json:"amount" gorm:"not null"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'queued'"`
	ScheduledAt time.Time  `json:"scheduled_at" gorm:"column:scheduled_at;autoCreateTime"`
	SettledAt   *time.Time `json:"settled_at,omitempty" gorm:"column:settled_at"`
}

func (Payout) TableName() string { return "payout" }
