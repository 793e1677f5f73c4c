package model

import (
	"errors"
	"fmt"
	"time"
)

// OrderStatus is the canonical order lifecycle state. Legacy rows carried
// "" and "pending" for the initial state; NormalizeStatus folds those once
// at the boundary so the transition table never sees them.
type OrderStatus string

const (
	StatusMenunggu   OrderStatus = "menunggu" // awaiting payment
	StatusDiproses   OrderStatus = "diproses" // paid, waiting for the seller
	StatusDikemas    OrderStatus = "dikemas"  // packed, waiting for courier pickup
	StatusDikirim    OrderStatus = "dikirim"  // in transit
	StatusSelesai    OrderStatus = "selesai"  // delivered/confirmed
	StatusDibatalkan OrderStatus = "dibatalkan"
)

// NormalizeStatus maps any stored status value to its canonical form.
func NormalizeStatus(s string) OrderStatus {
	switch s {
	case "", "pending", string(StatusMenunggu):
		return StatusMenunggu
	default:
		return OrderStatus(s)
	}
}

// ParseOrderStatus validates an admin-supplied target status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusMenunggu, StatusDiproses, StatusDikemas, StatusDikirim, StatusSelesai, StatusDibatalkan:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// OrderEvent is a lifecycle event applied to an order.
type OrderEvent int

const (
	EventPaymentConfirmed OrderEvent = iota
	EventCancel
	EventPack
	EventShip
	EventDeliver
	EventComplete
)

func (e OrderEvent) String() string {
	switch e {
	case EventPaymentConfirmed:
		return "payment_confirmed"
	case EventCancel:
		return "cancel"
	case EventPack:
		return "pack"
	case EventShip:
		return "ship"
	case EventDeliver:
		return "deliver"
	case EventComplete:
		return "complete"
	}
	return "unknown"
}

var (
	// ErrInvalidTransition means the order's current status does not allow
	// the event.
	ErrInvalidTransition = errors.New("order: invalid status transition")
	// ErrEventRole means the caller's role may not fire the event at all.
	ErrEventRole = errors.New("order: role may not perform this transition")
)

// Transition returns the status an order moves to when event ev is fired by
// a caller with role r. It is pure: callers persist the result and its side
// effects (stock release, timestamps, courier binding) themselves. Admin
// force-status bypasses this table entirely.
func Transition(cur OrderStatus, ev OrderEvent, r Role) (OrderStatus, error) {
	if ok := eventAllowed(ev, r); !ok {
		return cur, ErrEventRole
	}
	cur = NormalizeStatus(string(cur))
	switch ev {
	case EventPaymentConfirmed:
		if cur == StatusMenunggu {
			return StatusDiproses, nil
		}
	case EventCancel:
		if cur == StatusMenunggu {
			return StatusDibatalkan, nil
		}
	case EventPack:
		if cur == StatusMenunggu || cur == StatusDiproses {
			return StatusDikemas, nil
		}
	case EventShip:
		if cur == StatusDikemas {
			return StatusDikirim, nil
		}
	case EventDeliver, EventComplete:
		if cur == StatusDikirim {
			return StatusSelesai, nil
		}
	}
	return cur, ErrInvalidTransition
}

// eventAllowed is the role gate, exhaustive over the closed Role set.
func eventAllowed(ev OrderEvent, r Role) bool {
	switch r {
	case RoleBuyer:
		return ev == EventCancel || ev == EventComplete || ev == EventPaymentConfirmed
	case RoleSeller:
		return ev == EventPack
	case RoleCourier:
		return ev == EventShip || ev == EventDeliver
	case RoleAdmin:
		// Admin confirms payments on behalf of buyers; everything else goes
		// through force-status.
		return ev == EventPaymentConfirmed
	}
	return false
}

// ReleasesStock reports whether moving from to into dibatalkan must restore
// stock. Release happens exactly once: never when the order is already
// cancelled.
func ReleasesStock(cur, next OrderStatus) bool {
	return next == StatusDibatalkan && NormalizeStatus(string(cur)) != StatusDibatalkan
}

// Order is created only through checkout; total and line items are fixed at
// creation time.
type Order struct {
	ID             uint        `json:"pesanan_id" gorm:"primaryKey;column:pesanan_id"`
	PembeliID      uint        `json:"pembeli_id" gorm:"column:pembeli_id;index;not null"`
	AlamatKirim    string      `json:"alamat_kirim,omitempty" gorm:"type:text;column:alamat_kirim"`
	TotalHarga     float64     `json:"total_harga" gorm:"column:total_harga;not null"`
	Status         OrderStatus `json:"status_pesanan" gorm:"type:varchar(20);column:status_pesanan;default:'menunggu'"`
	KurirID        *uint       `json:"kurir_id,omitempty" gorm:"column:kurir_id;index"`
	Ongkir         float64     `json:"ongkir" gorm:"default:0"`
	LokasiTerakhir string      `json:"lokasi_terakhir,omitempty" gorm:"type:varchar(255);column:lokasi_terakhir"`
	CatatanKurir   string      `json:"catatan_kurir,omitempty" gorm:"type:text;column:catatan_kurir"`
	TanggalDikemas *time.Time  `json:"tanggal_dikemas,omitempty" gorm:"column:tanggal_dikemas"`
	TanggalDikirim *time.Time  `json:"tanggal_dikirim,omitempty" gorm:"column:tanggal_dikirim"`
	TanggalSelesai *time.Time  `json:"tanggal_selesai,omitempty" gorm:"column:tanggal_selesai"`
	CreatedAt      time.Time   `json:"created_at"`
	Items          []OrderItem `json:"items,omitempty" gorm:"foreignKey:PesananID"`
}

func (Order) TableName() string { return "pesanan" }

// OrderItem is the immutable snapshot of a product at purchase time.
type OrderItem struct {
	ID            uint    `json:"pesanan_item_id" gorm:"primaryKey;column:pesanan_item_id"`
	PesananID     uint    `json:"pesanan_id" gorm:"column:pesanan_id;index;not null"`
	ProdukID      uint    `json:"produk_id" gorm:"column:produk_id;index;not null"`
	HargaSaatBeli float64 `json:"harga_saat_beli" gorm:"column:harga_saat_beli;not null"`
	Jumlah        int     `json:"jumlah" gorm:"not null"`
	Subtotal      float64 `json:"subtotal" gorm:"not null"`
}

func (OrderItem) TableName() string { return "pesanan_item" }
