package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mechanicshop-backend/utils"
)

func TestMechanicCreateValidation(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	_, err := f.mechanics.Create(ctx, CreateMechanicInput{})
	assert.Equal(t, utils.KindValidation, errKind(t, err))

	rate := -5.0
	_, err = f.mechanics.Create(ctx, CreateMechanicInput{
		FirstName:  "Mike",
		LastName:   "Wrench",
		Email:      "mike@shop.com",
		HourlyRate: &rate,
	})
	assert.Equal(t, utils.KindValidation, errKind(t, err))
}

func TestMechanicDuplicateEmail(t *testing.T) {
	f := setupServices(t)
	f.mechanic(t, "mike@shop.com")

	_, err := f.mechanics.Create(context.Background(), CreateMechanicInput{
		FirstName: "Michael",
		LastName:  "Wrench",
		Email:     "mike@shop.com",
	})
	assert.Equal(t, utils.KindConflict, errKind(t, err))
}

func TestMechanicUpdate(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	mechanic := f.mechanic(t, "mike@shop.com")

	specialty := "Transmissions"
	rate := 85.0
	updated, err := f.mechanics.Update(ctx, mechanic.ID, UpdateMechanicInput{
		Specialty:  &specialty,
		HourlyRate: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Transmissions", updated.Specialty)
	require.NotNil(t, updated.HourlyRate)
	assert.Equal(t, 85.0, *updated.HourlyRate)

	_, err = f.mechanics.Update(ctx, mechanic.ID, UpdateMechanicInput{})
	assert.Equal(t, utils.KindValidation, errKind(t, err))

	_, err = f.mechanics.Update(ctx, "no-such-mechanic", UpdateMechanicInput{Specialty: &specialty})
	assert.Equal(t, utils.KindNotFound, errKind(t, err))
}

func TestMechanicDelete(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	mechanic := f.mechanic(t, "mike@shop.com")

	require.NoError(t, f.mechanics.Delete(ctx, mechanic.ID))
	assert.Equal(t, utils.KindNotFound, errKind(t, f.mechanics.Delete(ctx, mechanic.ID)))
}

func TestInventoryCreateValidation(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	_, err := f.inventory.Create(ctx, CreateInventoryInput{})
	assert.Equal(t, utils.KindValidation, errKind(t, err))

	negative := -1.0
	_, err = f.inventory.Create(ctx, CreateInventoryInput{Name: "Oil Filter", Price: &negative})
	assert.Equal(t, utils.KindValidation, errKind(t, err))

	free := 0.0
	part, err := f.inventory.Create(ctx, CreateInventoryInput{Name: "Shop Rag", Price: &free})
	require.NoError(t, err)
	assert.Equal(t, 0.0, part.Price)
}

func TestInventoryUpdateAndDelete(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	part := f.part(t, "Oil Filter", 12.99)

	price := 14.99
	updated, err := f.inventory.Update(ctx, part.ID, UpdateInventoryInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 14.99, updated.Price)

	empty := ""
	_, err = f.inventory.Update(ctx, part.ID, UpdateInventoryInput{Name: &empty})
	assert.Equal(t, utils.KindValidation, errKind(t, err))

	require.NoError(t, f.inventory.Delete(ctx, part.ID))
	_, err = f.inventory.GetByID(ctx, part.ID)
	assert.Equal(t, utils.KindNotFound, errKind(t, err))
}

// Exists backs the ticket core's reference checks, so it must track
// deletions immediately and never answer from the customer cache.
func TestExistsTracksDeletion(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	mechanic := f.mechanic(t, "mike@shop.com")
	part := f.part(t, "Oil Filter", 12.99)

	// Warm the customer cache before deleting.
	_, err := f.customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)

	for _, check := range []struct {
		exists func(context.Context, string) (bool, error)
		id     string
		remove func() error
	}{
		{f.customers.Exists, customer.ID, func() error { return f.customers.Delete(ctx, customer.ID, customer.ID) }},
		{f.mechanics.Exists, mechanic.ID, func() error { return f.mechanics.Delete(ctx, mechanic.ID) }},
		{f.inventory.Exists, part.ID, func() error { return f.inventory.Delete(ctx, part.ID) }},
	} {
		ok, err := check.exists(ctx, check.id)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, check.remove())

		ok, err = check.exists(ctx, check.id)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	ok, err := f.customers.Exists(ctx, "no-such-customer")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntityLists(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	f.mechanic(t, "mike@shop.com")
	f.mechanic(t, "sara@shop.com")
	f.part(t, "Oil Filter", 12.99)

	mechanics, err := f.mechanics.List(ctx)
	require.NoError(t, err)
	assert.Len(t, mechanics, 2)

	parts, err := f.inventory.List(ctx)
	require.NoError(t, err)
	assert.Len(t, parts, 1)

	customers, err := f.customers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}
