package model

// Read models shared by the repositories and handlers.

// OrderItemDetail is an order item joined with its product and seller.
type OrderItemDetail struct {
	PesananItemID uint    `json:"pesanan_item_id"`
	ProdukID      uint    `json:"produk_id"`
	NamaProduk    string  `json:"nama_produk"`
	PhotoURL      string  `json:"photo_url,omitempty"`
	HargaSaatBeli float64 `json:"harga_saat_beli"`
	Jumlah        int     `json:"jumlah"`
	Subtotal      float64 `json:"subtotal"`
	PenjualID     uint    `json:"penjual_id"`
	PenjualNama   string  `json:"penjual_nama"`
}

// SalesRow is one day of the admin sales report.
type SalesRow struct {
	Tgl    string  `json:"tgl"`
	Orders int64   `json:"orders"`
	Total  float64 `json:"total"`
}

// UserCounts backs the admin dashboard.
type UserCounts struct {
	Total    int64 `json:"total_users"`
	Pembeli  int64 `json:"total_pembeli"`
	Penjual  int64 `json:"total_penjual"`
	Kurir    int64 `json:"total_kurir"`
	Verified int64 `json:"verified_users"`
}

// OrderCounts backs the admin dashboard.
type OrderCounts struct {
	Total     int64   `json:"total_orders"`
	Menunggu  int64   `json:"pending_orders"`
	Completed int64   `json:"completed_orders"`
	Revenue   float64 `json:"total_revenue"`
}
