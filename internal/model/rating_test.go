package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingStatsEmpty(t *testing.T) {
	avg, total := RatingStats(nil)
	assert.Nil(t, avg)
	assert.Equal(t, 0, total)
}

func TestRatingStats(t *testing.T) {
	ratings := []SellerRating{
		{Rating: 5},
		{Rating: 4},
		{Rating: 4},
	}
	avg, total := RatingStats(ratings)
	require.NotNil(t, avg)
	assert.InDelta(t, 4.33, *avg, 0.001)
	assert.Equal(t, 3, total)
}

func TestRatingStatsSingle(t *testing.T) {
	avg, total := RatingStats([]SellerRating{{Rating: 2}})
	require.NotNil(t, avg)
	assert.Equal(t, 2.0, *avg)
	assert.Equal(t, 1, total)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"pembeli", "penjual", "kurir", "admin"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(role))
	}
	_, err := ParseRole("supplier")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}
