package services

import (
	"context"
	"fmt"
	"time"

	"mechanicshop-backend/models"
	"mechanicshop-backend/store"
	"mechanicshop-backend/utils"
)

// Notifier receives ticket lifecycle events. Delivery is best effort
// and must never influence the outcome of the triggering request.
type Notifier interface {
	TicketCompleted(ticket models.ServiceTicket)
}

type CreateTicketInput struct {
	CustomerID    string   `json:"customer_id"`
	VehicleYear   *int     `json:"vehicle_year"`
	VehicleMake   string   `json:"vehicle_make"`
	VehicleModel  string   `json:"vehicle_model"`
	VehicleVIN    string   `json:"vehicle_vin"`
	Description   string   `json:"description"`
	EstimatedCost *float64 `json:"estimated_cost"`
	Status        string   `json:"status"`
}

type UpdateTicketInput struct {
	VehicleYear   *int     `json:"vehicle_year"`
	VehicleMake   *string  `json:"vehicle_make"`
	VehicleModel  *string  `json:"vehicle_model"`
	VehicleVIN    *string  `json:"vehicle_vin"`
	Description   *string  `json:"description"`
	EstimatedCost *float64 `json:"estimated_cost"`
	ActualCost    *float64 `json:"actual_cost"`
	Status        *string  `json:"status"`
}

// TicketService owns the ticket lifecycle and the mechanic/part
// association protocol. The store enforces nothing between
// collections, so every foreign id is validated at mutation time
// through the owning service's Exists check; the association arrays
// keep set semantics through the store's AddUnique/RemoveByValue
// primitives.
//
// The add/remove protocol is exactly-once success with an explicit
// error on repeat: re-adding a present member is a conflict, removing
// an absent one is a client error. Callers relying on silent
// idempotence are out of contract.
type TicketService struct {
	store     *store.Store
	customers *CustomerService
	mechanics *MechanicService
	inventory *InventoryService
	notifier  Notifier
}

func NewTicketService(st *store.Store, customers *CustomerService, mechanics *MechanicService, inventory *InventoryService, notifier Notifier) *TicketService {
	return &TicketService{
		store:     st,
		customers: customers,
		mechanics: mechanics,
		inventory: inventory,
		notifier:  notifier,
	}
}

// Create validates required fields and the customer reference, then
// writes the ticket with empty association sets. The customer_id is
// checked only here; later updates never revalidate or change it.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (models.ServiceTicket, error) {
	var problems []string
	if input.CustomerID == "" {
		problems = append(problems, "customer_id is required")
	}
	if input.Description == "" {
		problems = append(problems, "description is required")
	}
	if input.Status != "" && !models.ValidStatus(input.Status) {
		problems = append(problems, "status must be one of Open, In Progress, Completed, Cancelled")
	}
	if len(problems) > 0 {
		return models.ServiceTicket{}, utils.ValidationErrors(problems)
	}

	exists, err := s.customers.Exists(ctx, input.CustomerID)
	if err != nil {
		return models.ServiceTicket{}, utils.InternalError("An error occurred while creating the service ticket", err)
	}
	if !exists {
		return models.ServiceTicket{}, utils.InvalidReferenceError("Customer not found")
	}

	status := input.Status
	if status == "" {
		status = models.StatusOpen
	}
	ticket := models.ServiceTicket{
		CustomerID:    input.CustomerID,
		VehicleYear:   input.VehicleYear,
		VehicleMake:   input.VehicleMake,
		VehicleModel:  input.VehicleModel,
		VehicleVIN:    input.VehicleVIN,
		Description:   input.Description,
		EstimatedCost: input.EstimatedCost,
		ActualCost:    nil,
		Status:        status,
		MechanicIDs:   []string{},
		InventoryIDs:  []string{},
		CreatedAt:     time.Now().UTC(),
		CompletedAt:   nil,
	}
	doc, err := store.Encode(ticket)
	if err != nil {
		return models.ServiceTicket{}, utils.InternalError("An error occurred while creating the service ticket", err)
	}
	id, err := s.store.Create(ctx, store.Tickets, doc)
	if err != nil {
		return models.ServiceTicket{}, utils.InternalError("An error occurred while creating the service ticket", err)
	}
	ticket.ID = id
	return ticket, nil
}

func (s *TicketService) List(ctx context.Context) ([]models.ServiceTicket, error) {
	docs, err := s.store.List(ctx, store.Tickets)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving service tickets", err)
	}
	return decodeTickets(docs)
}

func (s *TicketService) GetByID(ctx context.Context, id string) (models.ServiceTicket, error) {
	doc, err := s.store.Get(ctx, store.Tickets, id)
	if err != nil {
		if err == store.ErrNoDocument {
			return models.ServiceTicket{}, utils.NotFoundError("Service ticket not found")
		}
		return models.ServiceTicket{}, utils.InternalError("An error occurred while retrieving the service ticket", err)
	}
	return decodeTicket(doc)
}

// Update merges the supplied fields. Status may move freely between
// the four literals; the only state-triggered side effect is stamping
// completed_at the first time the ticket reaches Completed.
// completed_at is monotonic: once set it survives every later status
// edit, so it records the first completion, not the last.
func (s *TicketService) Update(ctx context.Context, id string, input UpdateTicketInput) (models.ServiceTicket, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.ServiceTicket{}, err
	}

	patch := models.JSONB{}
	if input.VehicleYear != nil {
		patch["vehicle_year"] = *input.VehicleYear
	}
	if input.VehicleMake != nil {
		patch["vehicle_make"] = *input.VehicleMake
	}
	if input.VehicleModel != nil {
		patch["vehicle_model"] = *input.VehicleModel
	}
	if input.VehicleVIN != nil {
		patch["vehicle_vin"] = *input.VehicleVIN
	}
	if input.Description != nil {
		if *input.Description == "" {
			return models.ServiceTicket{}, utils.ValidationError("description must not be empty")
		}
		patch["description"] = *input.Description
	}
	if input.EstimatedCost != nil {
		patch["estimated_cost"] = *input.EstimatedCost
	}
	if input.ActualCost != nil {
		patch["actual_cost"] = *input.ActualCost
	}

	firstCompletion := false
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return models.ServiceTicket{}, utils.ValidationError("status must be one of Open, In Progress, Completed, Cancelled")
		}
		patch["status"] = *input.Status
		if *input.Status == models.StatusCompleted && existing.CompletedAt == nil {
			patch["completed_at"] = time.Now().UTC()
			firstCompletion = true
		}
	}

	if len(patch) == 0 {
		return models.ServiceTicket{}, utils.ValidationError("No fields to update")
	}

	updated, err := s.store.Update(ctx, store.Tickets, id, patch)
	if err != nil {
		return models.ServiceTicket{}, utils.InternalError("An error occurred while updating the service ticket", err)
	}
	ticket, err := decodeTicket(updated)
	if err != nil {
		return models.ServiceTicket{}, err
	}

	if firstCompletion && s.notifier != nil {
		go s.notifier.TicketCompleted(ticket)
	}
	return ticket, nil
}

func (s *TicketService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.Tickets, id); err != nil {
		if err == store.ErrNoDocument {
			return utils.NotFoundError("Service ticket not found")
		}
		return utils.InternalError("An error occurred while deleting the service ticket", err)
	}
	return nil
}

// AssignMechanic adds a mechanic to the ticket's crew. Both documents
// must exist; re-assigning an already-present mechanic is a conflict.
func (s *TicketService) AssignMechanic(ctx context.Context, ticketID, mechanicID string) (models.ServiceTicket, string, error) {
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return models.ServiceTicket{}, "", err
	}
	exists, err := s.mechanics.Exists(ctx, mechanicID)
	if err != nil {
		return models.ServiceTicket{}, "", utils.InternalError("An error occurred while assigning the mechanic", err)
	}
	if !exists {
		return models.ServiceTicket{}, "", utils.NotFoundError("Mechanic not found")
	}

	added, err := s.store.AddUnique(ctx, store.Tickets, ticketID, "mechanic_ids", mechanicID)
	if err != nil {
		return models.ServiceTicket{}, "", utils.InternalError("An error occurred while assigning the mechanic", err)
	}
	if !added {
		return models.ServiceTicket{}, "", utils.ConflictError("Mechanic is already assigned to this ticket")
	}

	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return models.ServiceTicket{}, "", err
	}
	return ticket, fmt.Sprintf("Mechanic %s assigned to ticket %s", mechanicID, ticketID), nil
}

// RemoveMechanic removes a mechanic from the crew. Only the ticket's
// existence is checked; removing a mechanic that is not on the ticket
// is a client error regardless of whether the mechanic document
// exists.
func (s *TicketService) RemoveMechanic(ctx context.Context, ticketID, mechanicID string) (models.ServiceTicket, string, error) {
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return models.ServiceTicket{}, "", err
	}

	removed, err := s.store.RemoveByValue(ctx, store.Tickets, ticketID, "mechanic_ids", mechanicID)
	if err != nil {
		return models.ServiceTicket{}, "", utils.InternalError("An error occurred while removing the mechanic", err)
	}
	if !removed {
		return models.ServiceTicket{}, "", utils.ValidationError("Mechanic is not assigned to this ticket")
	}

	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return models.ServiceTicket{}, "", err
	}
	return ticket, fmt.Sprintf("Mechanic %s removed from ticket %s", mechanicID, ticketID), nil
}

// AddPart mirrors AssignMechanic against the inventory collection.
func (s *TicketService) AddPart(ctx context.Context, ticketID, partID string) (models.ServiceTicket, string, error) {
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return models.ServiceTicket{}, "", err
	}
	exists, err := s.inventory.Exists(ctx, partID)
	if err != nil {
		return models.ServiceTicket{}, "", utils.InternalError("An error occurred while adding the part", err)
	}
	if !exists {
		return models.ServiceTicket{}, "", utils.NotFoundError("Inventory part not found")
	}

	added, err := s.store.AddUnique(ctx, store.Tickets, ticketID, "inventory_ids", partID)
	if err != nil {
		return models.ServiceTicket{}, "", utils.InternalError("An error occurred while adding the part", err)
	}
	if !added {
		return models.ServiceTicket{}, "", utils.ConflictError("Part is already added to this ticket")
	}

	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return models.ServiceTicket{}, "", err
	}
	return ticket, fmt.Sprintf("Part %s added to ticket %s", partID, ticketID), nil
}

func (s *TicketService) RemovePart(ctx context.Context, ticketID, partID string) (models.ServiceTicket, string, error) {
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return models.ServiceTicket{}, "", err
	}

	removed, err := s.store.RemoveByValue(ctx, store.Tickets, ticketID, "inventory_ids", partID)
	if err != nil {
		return models.ServiceTicket{}, "", utils.InternalError("An error occurred while removing the part", err)
	}
	if !removed {
		return models.ServiceTicket{}, "", utils.ValidationError("Part is not added to this ticket")
	}

	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return models.ServiceTicket{}, "", err
	}
	return ticket, fmt.Sprintf("Part %s removed from ticket %s", partID, ticketID), nil
}

// AddParts is the bulk variant: every part id is resolved before any
// mutation, so an unknown id fails the whole call with no partial
// effect. Duplicate ids in the input collapse to a single membership.
// The adds themselves are sequential store calls; a failure part-way
// through leaves the earlier adds in place.
func (s *TicketService) AddParts(ctx context.Context, ticketID string, partIDs []string) (models.ServiceTicket, error) {
	if err := s.requireTicket(ctx, ticketID); err != nil {
		return models.ServiceTicket{}, err
	}

	for _, partID := range partIDs {
		exists, err := s.inventory.Exists(ctx, partID)
		if err != nil {
			return models.ServiceTicket{}, utils.InternalError("An error occurred while adding parts", err)
		}
		if !exists {
			return models.ServiceTicket{}, utils.NotFoundError(fmt.Sprintf("Inventory part %s not found", partID))
		}
	}

	for _, partID := range partIDs {
		// Already-present ids (or duplicates in the input) are skipped.
		if _, err := s.store.AddUnique(ctx, store.Tickets, ticketID, "inventory_ids", partID); err != nil {
			return models.ServiceTicket{}, utils.InternalError("An error occurred while adding parts", err)
		}
	}

	return s.GetByID(ctx, ticketID)
}

// ListByCustomer fails on an unknown customer id: path-parameter ids
// come from the client and must be defended, unlike the verified
// subject id ListMine trusts.
func (s *TicketService) ListByCustomer(ctx context.Context, customerID string) ([]models.ServiceTicket, error) {
	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving customer tickets", err)
	}
	if !exists {
		return nil, utils.NotFoundError("Customer not found")
	}
	docs, err := s.store.FindByField(ctx, store.Tickets, "customer_id", customerID)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving customer tickets", err)
	}
	return decodeTickets(docs)
}

func (s *TicketService) ListByMechanic(ctx context.Context, mechanicID string) ([]models.ServiceTicket, error) {
	exists, err := s.mechanics.Exists(ctx, mechanicID)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving mechanic tickets", err)
	}
	if !exists {
		return nil, utils.NotFoundError("Mechanic not found")
	}
	docs, err := s.store.FindArrayContains(ctx, store.Tickets, "mechanic_ids", mechanicID)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving mechanic tickets", err)
	}
	return decodeTickets(docs)
}

// ListMine returns the verified caller's tickets. A caller with no
// tickets gets an empty list, never a 404: the subject id came from a
// valid credential, not from the request path.
func (s *TicketService) ListMine(ctx context.Context, callerID string) ([]models.ServiceTicket, error) {
	docs, err := s.store.FindByField(ctx, store.Tickets, "customer_id", callerID)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving tickets", err)
	}
	return decodeTickets(docs)
}

func (s *TicketService) requireTicket(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, store.Tickets, id); err != nil {
		if err == store.ErrNoDocument {
			return utils.NotFoundError("Service ticket not found")
		}
		return utils.InternalError("An error occurred while retrieving the service ticket", err)
	}
	return nil
}

func decodeTicket(doc models.JSONB) (models.ServiceTicket, error) {
	var ticket models.ServiceTicket
	if err := store.Decode(doc, &ticket); err != nil {
		return models.ServiceTicket{}, utils.InternalError("An error occurred while reading the service ticket", err)
	}
	// Keep the association sets present even when a raw document
	// lacks them, so responses always carry arrays.
	if ticket.MechanicIDs == nil {
		ticket.MechanicIDs = []string{}
	}
	if ticket.InventoryIDs == nil {
		ticket.InventoryIDs = []string{}
	}
	return ticket, nil
}

func decodeTickets(docs []models.JSONB) ([]models.ServiceTicket, error) {
	tickets := make([]models.ServiceTicket, 0, len(docs))
	for _, doc := range docs {
		ticket, err := decodeTicket(doc)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}
