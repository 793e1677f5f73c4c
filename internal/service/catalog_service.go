package service

import (
	"errors"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

// CatalogService covers the catalog writes that need more than a single
// repository call. Plain product CRUD stays in the handler.
type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

// DeleteProduct soft-deletes a product and removes it from every cart.
// Sellers may only delete their own products; an aktif product with open
// orders is protected until those orders close.
func (s *CatalogService) DeleteProduct(userID uint, role model.Role, produkID uint) error {
	return s.store.InTx(func(tx repository.Store) error {
		p, err := tx.Products().FindByID(produkID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if role != model.RoleAdmin && p.PenjualID != userID {
			return ErrForbidden
		}
		if p.Status == model.ProductActive {
			n, err := tx.Orders().CountOpenByProduct(produkID)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrProductInUse
			}
		}
		if err := tx.Products().SoftDelete(produkID); err != nil {
			return err
		}
		if role == model.RoleAdmin {
			if err := tx.AuditLogs().Append(&model.AuditLog{
				ActorUserID: userID,
				Action:      "product_delete",
				EntityType:  "produk",
				EntityID:    produkID,
			}); err != nil {
				return err
			}
		}
		return tx.Carts().DeleteItemsByProduct(produkID)
	})
}

// AdjustStock applies a manual stock correction by the owning seller, row
// locked so it composes with concurrent checkouts. The result may not go
// negative.
func (s *CatalogService) AdjustStock(sellerID, produkID uint, delta int) (*model.Product, error) {
	var updated *model.Product
	err := s.store.InTx(func(tx repository.Store) error {
		p, err := tx.Products().FindByIDForUpdate(produkID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if p.PenjualID != sellerID {
			return ErrForbidden
		}
		if p.Stok+delta < 0 {
			return &InsufficientStockError{
				ProdukID:   p.ID,
				NamaProduk: p.NamaProduk,
				Tersedia:   p.Stok,
				Diminta:    -delta,
			}
		}
		if err := tx.Products().AdjustStock(produkID, delta); err != nil {
			return err
		}
		p.Stok += delta
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
