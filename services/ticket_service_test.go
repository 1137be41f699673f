package services

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mechanicshop-backend/models"
	"mechanicshop-backend/store"
	"mechanicshop-backend/utils"
)

type fixture struct {
	store     *store.Store
	customers *CustomerService
	mechanics *MechanicService
	inventory *InventoryService
	tickets   *TicketService
}

func setupServices(t *testing.T) *fixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "services.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	st := store.New(db)
	customers := NewCustomerService(st, NewCustomerCache())
	mechanics := NewMechanicService(st)
	inventory := NewInventoryService(st)
	return &fixture{
		store:     st,
		customers: customers,
		mechanics: mechanics,
		inventory: inventory,
		tickets:   NewTicketService(st, customers, mechanics, inventory, nil),
	}
}

func (f *fixture) customer(t *testing.T, email string) models.Customer {
	t.Helper()
	customer, err := f.customers.Register(context.Background(), RegisterInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     email,
		Password:  "SecurePassword123",
	})
	require.NoError(t, err)
	return customer
}

func (f *fixture) mechanic(t *testing.T, email string) models.Mechanic {
	t.Helper()
	mechanic, err := f.mechanics.Create(context.Background(), CreateMechanicInput{
		FirstName: "Mike",
		LastName:  "Wrench",
		Email:     email,
	})
	require.NoError(t, err)
	return mechanic
}

func (f *fixture) part(t *testing.T, name string, price float64) models.Inventory {
	t.Helper()
	part, err := f.inventory.Create(context.Background(), CreateInventoryInput{
		Name:  name,
		Price: &price,
	})
	require.NoError(t, err)
	return part
}

func (f *fixture) ticket(t *testing.T, customerID string) models.ServiceTicket {
	t.Helper()
	ticket, err := f.tickets.Create(context.Background(), CreateTicketInput{
		CustomerID:  customerID,
		Description: "Oil change",
	})
	require.NoError(t, err)
	return ticket
}

func errKind(t *testing.T, err error) utils.ErrorKind {
	t.Helper()
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok, "expected *utils.AppError, got %T: %v", err, err)
	return appErr.Kind
}

func TestCreateTicketDefaults(t *testing.T) {
	f := setupServices(t)
	customer := f.customer(t, "john@x.com")

	ticket := f.ticket(t, customer.ID)

	assert.Equal(t, models.StatusOpen, ticket.Status)
	assert.Equal(t, []string{}, ticket.MechanicIDs)
	assert.Equal(t, []string{}, ticket.InventoryIDs)
	assert.Nil(t, ticket.ActualCost)
	assert.Nil(t, ticket.CompletedAt)
	assert.False(t, ticket.CreatedAt.IsZero())
}

func TestCreateTicketExplicitStatus(t *testing.T) {
	f := setupServices(t)
	customer := f.customer(t, "john@x.com")

	ticket, err := f.tickets.Create(context.Background(), CreateTicketInput{
		CustomerID:  customer.ID,
		Description: "Brake inspection",
		Status:      models.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, ticket.Status)
}

func TestCreateTicketValidation(t *testing.T) {
	f := setupServices(t)

	_, err := f.tickets.Create(context.Background(), CreateTicketInput{})
	assert.Equal(t, utils.KindValidation, errKind(t, err))

	customer := f.customer(t, "john@x.com")
	_, err = f.tickets.Create(context.Background(), CreateTicketInput{
		CustomerID:  customer.ID,
		Description: "Oil change",
		Status:      "Done",
	})
	assert.Equal(t, utils.KindValidation, errKind(t, err))
}

func TestCreateTicketUnknownCustomer(t *testing.T) {
	f := setupServices(t)

	_, err := f.tickets.Create(context.Background(), CreateTicketInput{
		CustomerID:  "no-such-customer",
		Description: "Oil change",
	})
	assert.Equal(t, utils.KindInvalidReference, errKind(t, err))
}

func TestAssignMechanicExactlyOnce(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	mechanic := f.mechanic(t, "mike@shop.com")
	ticket := f.ticket(t, customer.ID)

	updated, message, err := f.tickets.AssignMechanic(ctx, ticket.ID, mechanic.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{mechanic.ID}, updated.MechanicIDs)
	assert.Contains(t, message, mechanic.ID)

	// Repeat is a conflict, not a silent no-op.
	_, _, err = f.tickets.AssignMechanic(ctx, ticket.ID, mechanic.ID)
	assert.Equal(t, utils.KindConflict, errKind(t, err))

	after, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{mechanic.ID}, after.MechanicIDs, "still exactly one entry after both calls")
}

func TestAssignMechanicNotFound(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	mechanic := f.mechanic(t, "mike@shop.com")
	ticket := f.ticket(t, customer.ID)

	_, _, err := f.tickets.AssignMechanic(ctx, "no-such-ticket", mechanic.ID)
	assert.Equal(t, utils.KindNotFound, errKind(t, err))

	_, _, err = f.tickets.AssignMechanic(ctx, ticket.ID, "no-such-mechanic")
	assert.Equal(t, utils.KindNotFound, errKind(t, err))
}

func TestRemoveMechanicNotAssigned(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	mechanic := f.mechanic(t, "mike@shop.com")
	ticket := f.ticket(t, customer.ID)

	_, _, err := f.tickets.RemoveMechanic(ctx, ticket.ID, mechanic.ID)
	assert.Equal(t, utils.KindValidation, errKind(t, err))

	after, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, after.MechanicIDs)
}

func TestRemoveMechanicRoundTrip(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	mechanic := f.mechanic(t, "mike@shop.com")
	ticket := f.ticket(t, customer.ID)

	_, _, err := f.tickets.AssignMechanic(ctx, ticket.ID, mechanic.ID)
	require.NoError(t, err)

	updated, _, err := f.tickets.RemoveMechanic(ctx, ticket.ID, mechanic.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.MechanicIDs)

	// Removing again errors: the protocol is exactly-once on success.
	_, _, err = f.tickets.RemoveMechanic(ctx, ticket.ID, mechanic.ID)
	assert.Equal(t, utils.KindValidation, errKind(t, err))
}

func TestAddAndRemovePart(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	part := f.part(t, "Oil Filter", 12.99)
	ticket := f.ticket(t, customer.ID)

	updated, _, err := f.tickets.AddPart(ctx, ticket.ID, part.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{part.ID}, updated.InventoryIDs)

	_, _, err = f.tickets.AddPart(ctx, ticket.ID, part.ID)
	assert.Equal(t, utils.KindConflict, errKind(t, err))

	_, _, err = f.tickets.AddPart(ctx, ticket.ID, "no-such-part")
	assert.Equal(t, utils.KindNotFound, errKind(t, err))

	updated, _, err = f.tickets.RemovePart(ctx, ticket.ID, part.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.InventoryIDs)

	_, _, err = f.tickets.RemovePart(ctx, ticket.ID, part.ID)
	assert.Equal(t, utils.KindValidation, errKind(t, err))
}

func TestAddPartsNoPartialMutation(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	part := f.part(t, "Oil Filter", 12.99)
	ticket := f.ticket(t, customer.ID)

	_, err := f.tickets.AddParts(ctx, ticket.ID, []string{part.ID, "no-such-part"})
	assert.Equal(t, utils.KindNotFound, errKind(t, err))

	after, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, after.InventoryIDs, "failed bulk add must not leave a partial mutation")
}

func TestAddPartsDuplicateInput(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	part := f.part(t, "Oil Filter", 12.99)
	ticket := f.ticket(t, customer.ID)

	updated, err := f.tickets.AddParts(ctx, ticket.ID, []string{part.ID, part.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{part.ID}, updated.InventoryIDs, "duplicates in the input collapse")
}

func TestAddPartsBulk(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	p1 := f.part(t, "Oil Filter", 12.99)
	p2 := f.part(t, "Air Filter", 24.50)
	ticket := f.ticket(t, customer.ID)

	// One of the two is already on the ticket; the bulk add skips it.
	_, _, err := f.tickets.AddPart(ctx, ticket.ID, p1.ID)
	require.NoError(t, err)

	updated, err := f.tickets.AddParts(ctx, ticket.ID, []string{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, updated.InventoryIDs)
}

func TestCompletedAtMonotonic(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	ticket := f.ticket(t, customer.ID)

	completed := models.StatusCompleted
	updated, err := f.tickets.Update(ctx, ticket.ID, UpdateTicketInput{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	firstCompletion := *updated.CompletedAt

	// Moving away from Completed does not clear the stamp.
	open := models.StatusOpen
	updated, err = f.tickets.Update(ctx, ticket.ID, UpdateTicketInput{Status: &open})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, firstCompletion, *updated.CompletedAt)

	// Completing a second time does not move it either.
	updated, err = f.tickets.Update(ctx, ticket.ID, UpdateTicketInput{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, firstCompletion, *updated.CompletedAt)
}

func TestUpdateTicketEmptyPatch(t *testing.T) {
	f := setupServices(t)
	customer := f.customer(t, "john@x.com")
	ticket := f.ticket(t, customer.ID)

	_, err := f.tickets.Update(context.Background(), ticket.ID, UpdateTicketInput{})
	assert.Equal(t, utils.KindValidation, errKind(t, err))
}

func TestUpdateTicketCosts(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	ticket := f.ticket(t, customer.ID)

	actual := 145.50
	updated, err := f.tickets.Update(ctx, ticket.ID, UpdateTicketInput{ActualCost: &actual})
	require.NoError(t, err)
	require.NotNil(t, updated.ActualCost)
	assert.Equal(t, 145.50, *updated.ActualCost)
}

func TestUpdateUnknownTicket(t *testing.T) {
	f := setupServices(t)

	desc := "new description"
	_, err := f.tickets.Update(context.Background(), "no-such-ticket", UpdateTicketInput{Description: &desc})
	assert.Equal(t, utils.KindNotFound, errKind(t, err))
}

func TestDeleteTicket(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	ticket := f.ticket(t, customer.ID)

	require.NoError(t, f.tickets.Delete(ctx, ticket.ID))
	_, err := f.tickets.GetByID(ctx, ticket.ID)
	assert.Equal(t, utils.KindNotFound, errKind(t, err))

	err = f.tickets.Delete(ctx, ticket.ID)
	assert.Equal(t, utils.KindNotFound, errKind(t, err))
}

func TestListByCustomer(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	john := f.customer(t, "john@x.com")
	jane := f.customer(t, "jane@x.com")
	f.ticket(t, john.ID)
	f.ticket(t, john.ID)
	f.ticket(t, jane.ID)

	tickets, err := f.tickets.ListByCustomer(ctx, john.ID)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	_, err = f.tickets.ListByCustomer(ctx, "no-such-customer")
	assert.Equal(t, utils.KindNotFound, errKind(t, err))
}

func TestListByMechanic(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	customer := f.customer(t, "john@x.com")
	mechanic := f.mechanic(t, "mike@shop.com")
	t1 := f.ticket(t, customer.ID)
	f.ticket(t, customer.ID)

	_, _, err := f.tickets.AssignMechanic(ctx, t1.ID, mechanic.ID)
	require.NoError(t, err)

	tickets, err := f.tickets.ListByMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, t1.ID, tickets[0].ID)

	_, err = f.tickets.ListByMechanic(ctx, "no-such-mechanic")
	assert.Equal(t, utils.KindNotFound, errKind(t, err))
}

func TestListMineEmptyIsNotAnError(t *testing.T) {
	f := setupServices(t)
	customer := f.customer(t, "john@x.com")

	tickets, err := f.tickets.ListMine(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

// Full walk through the canonical shop scenario: register, staff up,
// stock a part, run a ticket to completion, then delete the owner.
func TestShopScenario(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	john := f.customer(t, "john@x.com")
	mike := f.mechanic(t, "mike@shop.com")
	filter := f.part(t, "Oil Filter", 12.99)

	ticket := f.ticket(t, john.ID)
	assert.Equal(t, models.StatusOpen, ticket.Status)

	updated, _, err := f.tickets.AssignMechanic(ctx, ticket.ID, mike.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{mike.ID}, updated.MechanicIDs)

	updated, _, err = f.tickets.AddPart(ctx, ticket.ID, filter.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{filter.ID}, updated.InventoryIDs)

	completed := models.StatusCompleted
	updated, err = f.tickets.Update(ctx, ticket.ID, UpdateTicketInput{Status: &completed})
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)

	require.NoError(t, f.customers.Delete(ctx, john.ID, john.ID))
	_, err = f.tickets.GetByID(ctx, ticket.ID)
	assert.Equal(t, utils.KindNotFound, errKind(t, err), "owner deletion cascades to the ticket")

	_, err = f.tickets.ListByCustomer(ctx, john.ID)
	assert.Equal(t, utils.KindNotFound, errKind(t, err))
}
