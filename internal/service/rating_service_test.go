package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/service"
)

// completedOrder drives a single-product order to selesai and returns it.
func completedOrder(t *testing.T, f *fixture, buyerID, sellerID, produkID uint) *model.Order {
	t.Helper()
	kurir := f.seedUser(t, "kurir-bantuan", model.RoleCourier)
	o := f.placeOrder(t, buyerID, produkID, 1)
	return f.deliverOrder(t, o, sellerID, kurir.ID)
}

func TestCreateProductReview(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	o := completedOrder(t, f, buyer.ID, seller.ID, ikan.ID)

	review, err := f.ratings.CreateProductReview(buyer.ID, o.ID, ikan.ID, 5, "segar sekali")
	require.NoError(t, err)
	assert.Equal(t, model.RatingActive, review.Status)
	assert.Equal(t, ikan.ID, review.ProdukID)

	// One review per purchased item.
	_, err = f.ratings.CreateProductReview(buyer.ID, o.ID, ikan.ID, 4, "")
	assert.ErrorIs(t, err, service.ErrReviewAlreadyExists)
}

func TestCreateProductReviewGates(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	other := f.seedUser(t, "lain", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	udang := f.seedProduct(t, seller.ID, "Udang Galah", 80000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)

	// Order not completed yet.
	_, err := f.ratings.CreateProductReview(buyer.ID, o.ID, ikan.ID, 5, "")
	assert.ErrorIs(t, err, service.ErrOrderNotCompleted)

	// Product not part of the order.
	_, err = f.ratings.CreateProductReview(buyer.ID, o.ID, udang.ID, 5, "")
	assert.ErrorIs(t, err, service.ErrProductNotInOrder)

	// Someone else's order looks like it does not exist.
	_, err = f.ratings.CreateProductReview(other.ID, o.ID, ikan.ID, 5, "")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProductReviewsAggregate(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyerA := f.seedUser(t, "pembeliA", model.RoleBuyer)
	buyerB := f.seedUser(t, "pembeliB", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	oA := completedOrder(t, f, buyerA.ID, seller.ID, ikan.ID)
	_, err := f.ratings.CreateProductReview(buyerA.ID, oA.ID, ikan.ID, 5, "")
	require.NoError(t, err)

	kurir := f.seedUser(t, "kurir2", model.RoleCourier)
	oB := f.placeOrder(t, buyerB.ID, ikan.ID, 1)
	f.deliverOrder(t, oB, seller.ID, kurir.ID)
	_, err = f.ratings.CreateProductReview(buyerB.ID, oB.ID, ikan.ID, 2, "")
	require.NoError(t, err)

	summary, err := f.ratings.ProductReviews(ikan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	require.NotNil(t, summary.AvgRating)
	assert.Equal(t, 3.5, *summary.AvgRating)
}

func TestCreateSellerRating(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	outsider := f.seedUser(t, "penjual2", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	o := completedOrder(t, f, buyer.ID, seller.ID, ikan.ID)

	sr, err := f.ratings.CreateSellerRating(buyer.ID, o.ID, seller.ID, 4, "pengiriman cepat")
	require.NoError(t, err)
	assert.Equal(t, seller.ID, sr.PenjualID)

	// The denormalized aggregate is written on the seller row.
	u, err := f.store.Users().FindByID(seller.ID)
	require.NoError(t, err)
	require.NotNil(t, u.AvgRating)
	assert.Equal(t, 4.0, *u.AvgRating)
	assert.Equal(t, 1, u.TotalRatings)

	// A seller without items in the order cannot be rated for it.
	_, err = f.ratings.CreateSellerRating(buyer.ID, o.ID, outsider.ID, 5, "")
	assert.ErrorIs(t, err, service.ErrSellerNotInOrder)

	// One rating per (buyer, order, seller).
	_, err = f.ratings.CreateSellerRating(buyer.ID, o.ID, seller.ID, 5, "")
	assert.ErrorIs(t, err, service.ErrRatingAlreadyExists)
}

func TestUpdateSellerRatingRecomputes(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	o := completedOrder(t, f, buyer.ID, seller.ID, ikan.ID)

	sr, err := f.ratings.CreateSellerRating(buyer.ID, o.ID, seller.ID, 2, "")
	require.NoError(t, err)

	newRating := 5
	updated, err := f.ratings.UpdateSellerRating(buyer.ID, sr.ID, &newRating, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	u, err := f.store.Users().FindByID(seller.ID)
	require.NoError(t, err)
	require.NotNil(t, u.AvgRating)
	assert.Equal(t, 5.0, *u.AvgRating)

	// Only the author may edit.
	other := f.seedUser(t, "lain", model.RoleBuyer)
	_, err = f.ratings.UpdateSellerRating(other.ID, sr.ID, &newRating, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommentLengthBounds(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	o := completedOrder(t, f, buyer.ID, seller.ID, ikan.ID)

	// Product reviews cap the comment at 500 characters.
	_, err := f.ratings.CreateProductReview(buyer.ID, o.ID, ikan.ID, 5, strings.Repeat("a", 501))
	assert.ErrorIs(t, err, service.ErrCommentTooLong)
	_, err = f.ratings.CreateProductReview(buyer.ID, o.ID, ikan.ID, 5, strings.Repeat("a", 500))
	require.NoError(t, err)

	// Seller ratings allow up to 1000 characters.
	_, err = f.ratings.CreateSellerRating(buyer.ID, o.ID, seller.ID, 4, strings.Repeat("b", 1001))
	assert.ErrorIs(t, err, service.ErrCommentTooLong)
	sr, err := f.ratings.CreateSellerRating(buyer.ID, o.ID, seller.ID, 4, strings.Repeat("b", 1000))
	require.NoError(t, err)

	// Edits are held to the same bound.
	long := strings.Repeat("c", 1001)
	_, err = f.ratings.UpdateSellerRating(buyer.ID, sr.ID, nil, &long)
	assert.ErrorIs(t, err, service.ErrCommentTooLong)
}

func TestRateableOrders(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	// An open order is not rateable.
	f.placeOrder(t, buyer.ID, ikan.ID, 1)
	rateable, err := f.ratings.RateableOrders(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, rateable)

	done := completedOrder(t, f, buyer.ID, seller.ID, ikan.ID)
	rateable, err = f.ratings.RateableOrders(buyer.ID)
	require.NoError(t, err)
	require.Len(t, rateable, 1)
	assert.Equal(t, done.ID, rateable[0].Order.ID)
	assert.Equal(t, []uint{seller.ID}, rateable[0].Sellers)

	// Rating the seller removes the order from the list.
	_, err = f.ratings.CreateSellerRating(buyer.ID, done.ID, seller.ID, 5, "")
	require.NoError(t, err)
	rateable, err = f.ratings.RateableOrders(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, rateable)
}

func TestOrderReviews(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	other := f.seedUser(t, "lain", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	o := completedOrder(t, f, buyer.ID, seller.ID, ikan.ID)

	reviews, err := f.ratings.OrderReviews(buyer.ID, o.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	_, err = f.ratings.CreateProductReview(buyer.ID, o.ID, ikan.ID, 5, "mantap")
	require.NoError(t, err)

	reviews, err = f.ratings.OrderReviews(buyer.ID, o.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, ikan.ID, reviews[0].ProdukID)

	_, err = f.ratings.OrderReviews(other.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestModerationRecomputes(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	o := completedOrder(t, f, buyer.ID, seller.ID, ikan.ID)

	sr, err := f.ratings.CreateSellerRating(buyer.ID, o.ID, seller.ID, 1, "")
	require.NoError(t, err)

	// Hiding the only rating resets the aggregate.
	hidden, err := f.ratings.SetSellerRatingStatus(admin.ID, sr.ID, model.RatingHidden)
	require.NoError(t, err)
	assert.Equal(t, model.RatingHidden, hidden.Status)

	u, err := f.store.Users().FindByID(seller.ID)
	require.NoError(t, err)
	assert.Nil(t, u.AvgRating)
	assert.Equal(t, 0, u.TotalRatings)

	// Restoring it brings the aggregate back.
	_, err = f.ratings.SetSellerRatingStatus(admin.ID, sr.ID, model.RatingActive)
	require.NoError(t, err)
	u, err = f.store.Users().FindByID(seller.ID)
	require.NoError(t, err)
	require.NotNil(t, u.AvgRating)
	assert.Equal(t, 1.0, *u.AvgRating)
}
