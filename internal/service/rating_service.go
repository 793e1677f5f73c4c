package service

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/prometheus"
)

// RatingService owns product reviews, seller ratings and the denormalized
// seller aggregate. Every write that can change a seller's numbers ends
// with a full recompute from the active rows.
type RatingService struct {
	store repository.Store
}

func NewRatingService(store repository.Store) *RatingService {
	return &RatingService{store: store}
}

// Comment length caps, matching the ulasan and rating_penjual column widths.
const (
	maxReviewComment       = 500
	maxSellerRatingComment = 1000
)

// CreateProductReview records a review for one purchased item. The order
// must belong to the buyer, be selesai and contain the product; one review
// per item.
func (s *RatingService) CreateProductReview(buyerID, orderID, produkID uint, rating int, komentar string) (*model.Review, error) {
	if utf8.RuneCountInString(komentar) > maxReviewComment {
		return nil, ErrCommentTooLong
	}
	var review *model.Review
	err := s.store.InTx(func(tx repository.Store) error {
		o, err := tx.Orders().FindByID(orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if o.PembeliID != buyerID {
			return ErrNotFound
		}
		items, err := tx.Orders().Items(orderID)
		if err != nil {
			return err
		}
		var item *model.OrderItem
		for i := range items {
			if items[i].ProdukID == produkID {
				item = &items[i]
				break
			}
		}
		if item == nil {
			return ErrProductNotInOrder
		}
		if model.NormalizeStatus(string(o.Status)) != model.StatusSelesai {
			return ErrOrderNotCompleted
		}
		if _, err := tx.Reviews().FindByOrderItem(item.ID, buyerID); err == nil {
			return ErrReviewAlreadyExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		review = &model.Review{
			ProdukID:      produkID,
			PembeliID:     buyerID,
			PesananItemID: item.ID,
			Rating:        rating,
			Komentar:      komentar,
			Status:        model.RatingActive,
		}
		return tx.Reviews().Create(review)
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordRating("produk")
	return review, nil
}

// ProductReviewSummary is a product's visible reviews with their aggregate.
type ProductReviewSummary struct {
	Reviews   []model.Review `json:"ulasan"`
	AvgRating *float64       `json:"avg_rating"`
	Total     int            `json:"total_ulasan"`
}

// ProductReviews returns the active reviews for a product plus the computed
// average, rounded like the seller aggregate.
func (s *RatingService) ProductReviews(produkID uint) (*ProductReviewSummary, error) {
	reviews, err := s.store.Reviews().ListByProduct(produkID, model.RatingActive)
	if err != nil {
		return nil, err
	}
	summary := &ProductReviewSummary{Reviews: reviews, Total: len(reviews)}
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		avg := math.Round(float64(sum)/float64(len(reviews))*100) / 100
		summary.AvgRating = &avg
	}
	return summary, nil
}

// CreateSellerRating records the buyer's rating of a seller for one
// completed order and recomputes the seller's aggregate.
func (s *RatingService) CreateSellerRating(buyerID, orderID, sellerID uint, rating int, komentar string) (*model.SellerRating, error) {
	if utf8.RuneCountInString(komentar) > maxSellerRatingComment {
		return nil, ErrCommentTooLong
	}
	var sr *model.SellerRating
	err := s.store.InTx(func(tx repository.Store) error {
		o, err := tx.Orders().FindByID(orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if o.PembeliID != buyerID || model.NormalizeStatus(string(o.Status)) != model.StatusSelesai {
			return ErrNotFound
		}
		n, err := tx.Orders().CountItemsBySeller(orderID, sellerID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrSellerNotInOrder
		}
		if _, err := tx.SellerRatings().Find(buyerID, orderID, sellerID); err == nil {
			return ErrRatingAlreadyExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		sr = &model.SellerRating{
			PenjualID: sellerID,
			PembeliID: buyerID,
			PesananID: orderID,
			Rating:    rating,
			Komentar:  komentar,
			Status:    model.RatingActive,
		}
		if err := tx.SellerRatings().Create(sr); err != nil {
			return err
		}
		return recomputeSellerStats(tx, sellerID)
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordRating("penjual")
	return sr, nil
}

// UpdateSellerRating edits the buyer's own rating and recomputes the
// aggregate. Nil fields are left unchanged.
func (s *RatingService) UpdateSellerRating(buyerID, ratingID uint, rating *int, komentar *string) (*model.SellerRating, error) {
	if komentar != nil && utf8.RuneCountInString(*komentar) > maxSellerRatingComment {
		return nil, ErrCommentTooLong
	}
	var sr *model.SellerRating
	err := s.store.InTx(func(tx repository.Store) error {
		found, err := tx.SellerRatings().FindByID(ratingID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if found.PembeliID != buyerID {
			return ErrNotFound
		}
		if rating != nil {
			found.Rating = *rating
		}
		if komentar != nil {
			found.Komentar = *komentar
		}
		if err := tx.SellerRatings().Update(found); err != nil {
			return err
		}
		sr = found
		return recomputeSellerStats(tx, found.PenjualID)
	})
	if err != nil {
		return nil, err
	}
	return sr, nil
}

// SetSellerRatingStatus moderates a rating (aktif/disembunyikan), recomputes
// the seller aggregate and audits the change.
func (s *RatingService) SetSellerRatingStatus(adminID, ratingID uint, status string) (*model.SellerRating, error) {
	var sr *model.SellerRating
	err := s.store.InTx(func(tx repository.Store) error {
		found, err := tx.SellerRatings().FindByID(ratingID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.SellerRatings().SetStatus(ratingID, status); err != nil {
			return err
		}
		found.Status = status
		if err := tx.AuditLogs().Append(&model.AuditLog{
			ActorUserID: adminID,
			Action:      "seller_rating_moderate",
			EntityType:  "rating_penjual",
			EntityID:    ratingID,
			Metadata:    fmt.Sprintf(`{"status":%q}`, status),
		}); err != nil {
			return err
		}
		sr = found
		return recomputeSellerStats(tx, found.PenjualID)
	})
	if err != nil {
		return nil, err
	}
	return sr, nil
}

// SetReviewStatus moderates a product review and audits the change.
func (s *RatingService) SetReviewStatus(adminID, reviewID uint, status string) (*model.Review, error) {
	var review *model.Review
	err := s.store.InTx(func(tx repository.Store) error {
		found, err := tx.Reviews().FindByID(reviewID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Reviews().SetStatus(reviewID, status); err != nil {
			return err
		}
		found.Status = status
		review = found
		return tx.AuditLogs().Append(&model.AuditLog{
			ActorUserID: adminID,
			Action:      "review_moderate",
			EntityType:  "ulasan",
			EntityID:    reviewID,
			Metadata:    fmt.Sprintf(`{"status":%q}`, status),
		})
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// SellerRatingPage is one page of a seller's ratings with the stored
// aggregate.
type SellerRatingPage struct {
	Ratings      []model.SellerRating `json:"ratings"`
	Total        int64                `json:"total"`
	AvgRating    *float64             `json:"avg_rating"`
	TotalRatings int                  `json:"total_ratings"`
}

// SellerRatings returns a page of the seller's ratings plus the stored
// aggregate columns.
func (s *RatingService) SellerRatings(sellerID uint, limit, offset int) (*SellerRatingPage, error) {
	seller, err := s.store.Users().FindByID(sellerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ratings, total, err := s.store.SellerRatings().ListBySellerPage(sellerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &SellerRatingPage{
		Ratings:      ratings,
		Total:        total,
		AvgRating:    seller.AvgRating,
		TotalRatings: seller.TotalRatings,
	}, nil
}

// OrderReviews returns the buyer's reviews for one of their orders.
func (s *RatingService) OrderReviews(buyerID, orderID uint) ([]model.Review, error) {
	o, err := s.store.Orders().FindByID(orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.PembeliID != buyerID {
		return nil, ErrNotFound
	}
	items, err := s.store.Orders().Items(orderID)
	if err != nil {
		return nil, err
	}
	var reviews []model.Review
	for _, it := range items {
		r, err := s.store.Reviews().FindByOrderItem(it.ID, buyerID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, nil
}

// RateableOrder is a completed order with the sellers the buyer has not
// rated yet.
type RateableOrder struct {
	Order   model.Order `json:"pesanan"`
	Sellers []uint      `json:"penjual_belum_dinilai"`
}

// RateableOrders lists the buyer's completed orders that still have at
// least one unrated seller.
func (s *RatingService) RateableOrders(buyerID uint) ([]RateableOrder, error) {
	orders, err := s.store.Orders().ListByBuyerAndStatus(buyerID, model.StatusSelesai)
	if err != nil {
		return nil, err
	}
	var out []RateableOrder
	for _, o := range orders {
		details, err := s.store.Orders().ItemsWithProducts(o.ID)
		if err != nil {
			return nil, err
		}
		seen := make(map[uint]bool)
		var unrated []uint
		for _, d := range details {
			if seen[d.PenjualID] {
				continue
			}
			seen[d.PenjualID] = true
			_, err := s.store.SellerRatings().Find(buyerID, o.ID, d.PenjualID)
			if errors.Is(err, repository.ErrNotFound) {
				unrated = append(unrated, d.PenjualID)
				continue
			}
			if err != nil {
				return nil, err
			}
		}
		if len(unrated) > 0 {
			out = append(out, RateableOrder{Order: o, Sellers: unrated})
		}
	}
	return out, nil
}

// recomputeSellerStats rebuilds the denormalized aggregate from all active
// ratings of the seller.
func recomputeSellerStats(tx repository.Store, sellerID uint) error {
	ratings, err := tx.SellerRatings().ListActiveBySeller(sellerID)
	if err != nil {
		return err
	}
	avg, total := model.RatingStats(ratings)
	return tx.Users().UpdateRatingStats(sellerID, avg, total)
}
