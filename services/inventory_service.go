package services

import (
	"context"

	"mechanicshop-backend/models"
	"mechanicshop-backend/store"
	"mechanicshop-backend/utils"
)

type CreateInventoryInput struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

type UpdateInventoryInput struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

type InventoryService struct {
	store *store.Store
}

func NewInventoryService(st *store.Store) *InventoryService {
	return &InventoryService{store: st}
}

func (s *InventoryService) Create(ctx context.Context, input CreateInventoryInput) (models.Inventory, error) {
	var problems []string
	if input.Name == "" {
		problems = append(problems, "name is required")
	}
	if input.Price == nil {
		problems = append(problems, "price is required")
	} else if *input.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if len(problems) > 0 {
		return models.Inventory{}, utils.ValidationErrors(problems)
	}

	part := models.Inventory{
		Name:  input.Name,
		Price: *input.Price,
	}
	doc, err := store.Encode(part)
	if err != nil {
		return models.Inventory{}, utils.InternalError("An error occurred while creating the inventory part", err)
	}
	id, err := s.store.Create(ctx, store.Inventory, doc)
	if err != nil {
		return models.Inventory{}, utils.InternalError("An error occurred while creating the inventory part", err)
	}
	part.ID = id
	return part, nil
}

func (s *InventoryService) List(ctx context.Context) ([]models.Inventory, error) {
	docs, err := s.store.List(ctx, store.Inventory)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving inventory", err)
	}
	parts := make([]models.Inventory, 0, len(docs))
	for _, doc := range docs {
		var part models.Inventory
		if err := store.Decode(doc, &part); err != nil {
			return nil, utils.InternalError("An error occurred while retrieving inventory", err)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func (s *InventoryService) GetByID(ctx context.Context, id string) (models.Inventory, error) {
	doc, err := s.store.Get(ctx, store.Inventory, id)
	if err != nil {
		if err == store.ErrNoDocument {
			return models.Inventory{}, utils.NotFoundError("Inventory part not found")
		}
		return models.Inventory{}, utils.InternalError("An error occurred while retrieving the inventory part", err)
	}
	var part models.Inventory
	if err := store.Decode(doc, &part); err != nil {
		return models.Inventory{}, utils.InternalError("An error occurred while retrieving the inventory part", err)
	}
	return part, nil
}

func (s *InventoryService) Update(ctx context.Context, id string, input UpdateInventoryInput) (models.Inventory, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return models.Inventory{}, err
	}

	patch := models.JSONB{}
	if input.Name != nil {
		if *input.Name == "" {
			return models.Inventory{}, utils.ValidationError("name must not be empty")
		}
		patch["name"] = *input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return models.Inventory{}, utils.ValidationError("price must not be negative")
		}
		patch["price"] = *input.Price
	}
	if len(patch) == 0 {
		return models.Inventory{}, utils.ValidationError("No fields to update")
	}

	updated, err := s.store.Update(ctx, store.Inventory, id, patch)
	if err != nil {
		return models.Inventory{}, utils.InternalError("An error occurred while updating the inventory part", err)
	}
	var part models.Inventory
	if err := store.Decode(updated, &part); err != nil {
		return models.Inventory{}, utils.InternalError("An error occurred while updating the inventory part", err)
	}
	return part, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.Inventory, id); err != nil {
		if err == store.ErrNoDocument {
			return utils.NotFoundError("Inventory part not found")
		}
		return utils.InternalError("An error occurred while deleting the inventory part", err)
	}
	return nil
}

func (s *InventoryService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Get(ctx, store.Inventory, id)
	if err == store.ErrNoDocument {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
