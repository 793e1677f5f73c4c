package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusMenunggu, NormalizeStatus(""))
	assert.Equal(t, StatusMenunggu, NormalizeStatus("pending"))
	assert.Equal(t, StatusMenunggu, NormalizeStatus("menunggu"))
	assert.Equal(t, StatusDikirim, NormalizeStatus("dikirim"))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		cur     OrderStatus
		ev      OrderEvent
		role    Role
		want    OrderStatus
		wantErr error
	}{
		{"payment confirms menunggu", StatusMenunggu, EventPaymentConfirmed, RoleBuyer, StatusDiproses, nil},
		{"payment on legacy pending", "pending", EventPaymentConfirmed, RoleAdmin, StatusDiproses, nil},
		{"payment on paid order", StatusDiproses, EventPaymentConfirmed, RoleBuyer, StatusDiproses, ErrInvalidTransition},
		{"buyer cancels menunggu", StatusMenunggu, EventCancel, RoleBuyer, StatusDibatalkan, nil},
		{"buyer cancels legacy empty", "", EventCancel, RoleBuyer, StatusDibatalkan, nil},
		{"cancel after packing", StatusDikemas, EventCancel, RoleBuyer, StatusDikemas, ErrInvalidTransition},
		{"cancel after shipping", StatusDikirim, EventCancel, RoleBuyer, StatusDikirim, ErrInvalidTransition},
		{"seller packs menunggu", StatusMenunggu, EventPack, RoleSeller, StatusDikemas, nil},
		{"seller packs diproses", StatusDiproses, EventPack, RoleSeller, StatusDikemas, nil},
		{"pack twice", StatusDikemas, EventPack, RoleSeller, StatusDikemas, ErrInvalidTransition},
		{"courier ships dikemas", StatusDikemas, EventShip, RoleCourier, StatusDikirim, nil},
		{"ship before packing", StatusDiproses, EventShip, RoleCourier, StatusDiproses, ErrInvalidTransition},
		{"courier delivers dikirim", StatusDikirim, EventDeliver, RoleCourier, StatusSelesai, nil},
		{"buyer completes dikirim", StatusDikirim, EventComplete, RoleBuyer, StatusSelesai, nil},
		{"complete before shipping", StatusDikemas, EventComplete, RoleBuyer, StatusDikemas, ErrInvalidTransition},
		{"terminal selesai", StatusSelesai, EventCancel, RoleBuyer, StatusSelesai, ErrInvalidTransition},
		{"terminal dibatalkan", StatusDibatalkan, EventPack, RoleSeller, StatusDibatalkan, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.cur, tt.ev, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionRoleGate(t *testing.T) {
	tests := []struct {
		name string
		ev   OrderEvent
		role Role
	}{
		{"seller cannot cancel", EventCancel, RoleSeller},
		{"courier cannot cancel", EventCancel, RoleCourier},
		{"buyer cannot pack", EventPack, RoleBuyer},
		{"courier cannot pack", EventPack, RoleCourier},
		{"buyer cannot ship", EventShip, RoleBuyer},
		{"seller cannot ship", EventShip, RoleSeller},
		{"seller cannot deliver", EventDeliver, RoleSeller},
		{"admin cannot pack", EventPack, RoleAdmin},
		{"unknown role", EventCancel, Role("tamu")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transition(StatusMenunggu, tt.ev, tt.role)
			assert.ErrorIs(t, err, ErrEventRole)
		})
	}
}

func TestReleasesStock(t *testing.T) {
	assert.True(t, ReleasesStock(StatusMenunggu, StatusDibatalkan))
	assert.True(t, ReleasesStock("pending", StatusDibatalkan))
	assert.False(t, ReleasesStock(StatusDibatalkan, StatusDibatalkan))
	assert.False(t, ReleasesStock(StatusMenunggu, StatusDiproses))
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("dikemas")
	assert.NoError(t, err)
	assert.Equal(t, StatusDikemas, got)

	_, err = ParseOrderStatus("pending")
	assert.Error(t, err)

	_, err = ParseOrderStatus("")
	assert.Error(t, err)
}
