package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/service"
)

func TestCreateShipment(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurir := f.seedUser(t, "kurir", model.RoleCourier)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)

	sh, err := f.shipments.Create(kurir.ID, o.ID, "RESI-001")
	require.NoError(t, err)
	assert.Equal(t, model.ShipmentProcessing, sh.Status)
	assert.Equal(t, "RESI-001", sh.NoResi)

	// One shipment per order; a repeat returns the existing record.
	again, err := f.shipments.Create(kurir.ID, o.ID, "RESI-002")
	require.NoError(t, err)
	assert.Equal(t, sh.ID, again.ID)
	assert.Equal(t, "RESI-001", again.NoResi)

	_, err = f.shipments.Create(kurir.ID, 9999, "")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestShipmentReceivedClosesOrder(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurir := f.seedUser(t, "kurir", model.RoleCourier)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 2)
	_, err := f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)
	_, err = f.orders.Ship(kurir.ID, o.ID)
	require.NoError(t, err)

	sh, err := f.shipments.Create(kurir.ID, o.ID, "RESI-001")
	require.NoError(t, err)
	assert.Equal(t, model.ShipmentShipped, sh.Status)

	updated, err := f.shipments.UpdateStatus(kurir.ID, model.RoleCourier, sh.ID, model.ShipmentReceived, "")
	require.NoError(t, err)
	assert.Equal(t, model.ShipmentReceived, updated.Status)

	stored, err := f.store.Orders().FindByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSelesai, stored.Status)

	payouts, err := f.store.Payouts().List(model.PayoutQueued)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, 100000.0, payouts[0].Amount)

	// The shipment cannot be reopened or re-closed.
	_, err = f.shipments.UpdateStatus(kurir.ID, model.RoleCourier, sh.ID, model.ShipmentReceived, "")
	assert.ErrorIs(t, err, service.ErrShipmentAlreadyClosed)
}

func TestShipmentReceivedAfterBuyerComplete(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurir := f.seedUser(t, "kurir", model.RoleCourier)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)
	_, err := f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)
	_, err = f.orders.Ship(kurir.ID, o.ID)
	require.NoError(t, err)
	sh, err := f.shipments.Create(kurir.ID, o.ID, "")
	require.NoError(t, err)

	// Buyer confirms first; payouts are derived once.
	_, err = f.orders.Complete(buyer.ID, o.ID)
	require.NoError(t, err)

	_, err = f.shipments.UpdateStatus(kurir.ID, model.RoleCourier, sh.ID, model.ShipmentReceived, "")
	require.NoError(t, err)

	payouts, err := f.store.Payouts().List("")
	require.NoError(t, err)
	assert.Len(t, payouts, 1)
}

func TestShipmentUpdateOwnership(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurir := f.seedUser(t, "kurir", model.RoleCourier)
	lain := f.seedUser(t, "kurir2", model.RoleCourier)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)

	sh, err := f.shipments.Create(kurir.ID, o.ID, "")
	require.NoError(t, err)

	_, err = f.shipments.UpdateStatus(lain.ID, model.RoleCourier, sh.ID, model.ShipmentShipped, "")
	assert.ErrorIs(t, err, service.ErrForbidden)

	// Admins may update any shipment.
	updated, err := f.shipments.UpdateStatus(admin.ID, model.RoleAdmin, sh.ID, model.ShipmentShipped, "RESI-9")
	require.NoError(t, err)
	assert.Equal(t, model.ShipmentShipped, updated.Status)
	assert.Equal(t, "RESI-9", updated.NoResi)
}
