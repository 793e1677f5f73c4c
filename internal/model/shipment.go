package model

import (
	"fmt"
	"time"
)

// Shipment statuses.
const (
	ShipmentProcessing = "diproses"
	ShipmentShipped    = "dikirim"
	ShipmentReceived   = "diterima"
)

// ParseShipmentStatus validates a shipment status update.
func ParseShipmentStatus(s string) (string, error) {
	switch s {
	case ShipmentProcessing, ShipmentShipped, ShipmentReceived:
		return s, nil
	}
	return "", fmt.Errorf("unknown shipment status %q", s)
}

// Shipment is the tracking record for an order, at most one per order.
// Marking it diterima closes the parent order.
type Shipment struct {
	ID        uint      `json:"pengiriman_id" gorm:"primaryKey;column:pengiriman_id"`
	PesananID uint      `json:"pesanan_id" gorm:"column:pesanan_id;uniqueIndex;not null"`
	KurirID   *uint     `json:"kurir_id,omitempty" gorm:"column:kurir_id;index"`
	NoResi    string    `json:"no_resi,omitempty" gorm:"type:varchar(100);column:no_resi"`
	Status    string    `json:"status_kirim" gorm:"type:varchar(20);column:status_kirim;default:'diproses'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Shipment) TableName() string { return "pengiriman" }
