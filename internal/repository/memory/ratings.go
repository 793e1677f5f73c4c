package memory

import (
	"sort"
	"time"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
)

type reviewRepo struct {
	root *Store
	tx   *state
}

func (r *reviewRepo) Create(rv *model.Review) error {
	st, done := access(r.root, r.tx)
	defer done()
	if rv.ID == 0 {
		rv.ID = st.nextID("ulasan")
	}
	if rv.DibuatPada.IsZero() {
		rv.DibuatPada = time.Now()
	}
	st.reviews[rv.ID] = *rv
	return nil
}

func (r *reviewRepo) FindByID(id uint) (*model.Review, error) {
	st, done := access(r.root, r.tx)
	defer done()
	rv, ok := st.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rv, nil
}

func (r *reviewRepo) FindByOrderItem(itemID, buyerID uint) (*model.Review, error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, rv := range st.reviews {
		if rv.PesananItemID == itemID && rv.PembeliID == buyerID {
			rv := rv
			return &rv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *reviewRepo) ListByProduct(produkID uint, status string) ([]model.Review, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.Review
	for _, rv := range st.reviews {
		if rv.ProdukID != produkID {
			continue
		}
		if status != "" && rv.Status != status {
			continue
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *reviewRepo) List(f repository.ReviewFilter) ([]model.Review, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.Review
	for _, rv := range st.reviews {
		if f.Status != "" && rv.Status != f.Status {
			continue
		}
		if f.Rating != 0 && rv.Rating != f.Rating {
			continue
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *reviewRepo) SetStatus(id uint, status string) error {
	st, done := access(r.root, r.tx)
	defer done()
	rv, ok := st.reviews[id]
	if !ok {
		return repository.ErrNotFound
	}
	rv.Status = status
	st.reviews[id] = rv
	return nil
}

type sellerRatingRepo struct {
	root *Store
	tx   *state
}

func (r *sellerRatingRepo) Create(sr *model.SellerRating) error {
	st, done := access(r.root, r.tx)
	defer done()
	if sr.ID == 0 {
		sr.ID = st.nextID("rating_penjual")
	}
	if sr.DibuatPada.IsZero() {
		sr.DibuatPada = time.Now()
	}
	st.sellerRatings[sr.ID] = *sr
	return nil
}

func (r *sellerRatingRepo) FindByID(id uint) (*model.SellerRating, error) {
	st, done := access(r.root, r.tx)
	defer done()
	sr, ok := st.sellerRatings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sr, nil
}

func (r *sellerRatingRepo) Find(buyerID, orderID, sellerID uint) (*model.SellerRating, error) {
	st, done := access(r.root, r.tx)
	defer done()
	for _, sr := range st.sellerRatings {
		if sr.PembeliID == buyerID && sr.PesananID == orderID && sr.PenjualID == sellerID {
			sr := sr
			return &sr, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *sellerRatingRepo) Update(sr *model.SellerRating) error {
	st, done := access(r.root, r.tx)
	defer done()
	if _, ok := st.sellerRatings[sr.ID]; !ok {
		return repository.ErrNotFound
	}
	st.sellerRatings[sr.ID] = *sr
	return nil
}

func (r *sellerRatingRepo) SetStatus(id uint, status string) error {
	st, done := access(r.root, r.tx)
	defer done()
	sr, ok := st.sellerRatings[id]
	if !ok {
		return repository.ErrNotFound
	}
	sr.Status = status
	st.sellerRatings[id] = sr
	return nil
}

func (r *sellerRatingRepo) ListActiveBySeller(sellerID uint) ([]model.SellerRating, error) {
	st, done := access(r.root, r.tx)
	defer done()
	var out []model.SellerRating
	for _, sr := range st.sellerRatings {
		if sr.PenjualID == sellerID && sr.Status == model.RatingActive {
			out = append(out, sr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *sellerRatingRepo) ListBySellerPage(sellerID uint, limit, offset int) ([]model.SellerRating, int64, error) {
	all, err := r.ListActiveBySeller(sellerID)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}
