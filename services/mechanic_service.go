package services

import (
	"context"
	"time"

	"mechanicshop-backend/models"
	"mechanicshop-backend/store"
	"mechanicshop-backend/utils"
)

type CreateMechanicInput struct {
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Specialty  string   `json:"specialty"`
	HourlyRate *float64 `json:"hourly_rate"`
	HireDate   string   `json:"hire_date"`
}

type UpdateMechanicInput struct {
	FirstName  *string  `json:"first_name"`
	LastName   *string  `json:"last_name"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	Specialty  *string  `json:"specialty"`
	HourlyRate *float64 `json:"hourly_rate"`
	HireDate   *string  `json:"hire_date"`
}

// MechanicService has no ownership concept: any caller may mutate
// mechanic records, subject only to validation and existence checks.
type MechanicService struct {
	store *store.Store
}

func NewMechanicService(st *store.Store) *MechanicService {
	return &MechanicService{store: st}
}

func (s *MechanicService) Create(ctx context.Context, input CreateMechanicInput) (models.Mechanic, error) {
	var problems []string
	if input.FirstName == "" {
		problems = append(problems, "first_name is required")
	}
	if input.LastName == "" {
		problems = append(problems, "last_name is required")
	}
	if input.Email == "" {
		problems = append(problems, "email is required")
	} else if !utils.ValidateEmail(input.Email) {
		problems = append(problems, "email is not a valid address")
	}
	if input.HourlyRate != nil && *input.HourlyRate < 0 {
		problems = append(problems, "hourly_rate must not be negative")
	}
	if len(problems) > 0 {
		return models.Mechanic{}, utils.ValidationErrors(problems)
	}

	taken, err := s.emailTaken(ctx, input.Email, "")
	if err != nil {
		return models.Mechanic{}, utils.InternalError("An error occurred while creating the mechanic", err)
	}
	if taken {
		return models.Mechanic{}, utils.ConflictError("Mechanic with this email already exists")
	}

	mechanic := models.Mechanic{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		Specialty:  input.Specialty,
		HourlyRate: input.HourlyRate,
		HireDate:   input.HireDate,
		CreatedAt:  time.Now().UTC(),
	}
	doc, err := store.Encode(mechanic)
	if err != nil {
		return models.Mechanic{}, utils.InternalError("An error occurred while creating the mechanic", err)
	}
	id, err := s.store.Create(ctx, store.Mechanics, doc)
	if err != nil {
		return models.Mechanic{}, utils.InternalError("An error occurred while creating the mechanic", err)
	}
	mechanic.ID = id
	return mechanic, nil
}

func (s *MechanicService) List(ctx context.Context) ([]models.Mechanic, error) {
	docs, err := s.store.List(ctx, store.Mechanics)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving mechanics", err)
	}
	mechanics := make([]models.Mechanic, 0, len(docs))
	for _, doc := range docs {
		var mechanic models.Mechanic
		if err := store.Decode(doc, &mechanic); err != nil {
			return nil, utils.InternalError("An error occurred while retrieving mechanics", err)
		}
		mechanics = append(mechanics, mechanic)
	}
	return mechanics, nil
}

func (s *MechanicService) GetByID(ctx context.Context, id string) (models.Mechanic, error) {
	doc, err := s.store.Get(ctx, store.Mechanics, id)
	if err != nil {
		if err == store.ErrNoDocument {
			return models.Mechanic{}, utils.NotFoundError("Mechanic not found")
		}
		return models.Mechanic{}, utils.InternalError("An error occurred while retrieving the mechanic", err)
	}
	var mechanic models.Mechanic
	if err := store.Decode(doc, &mechanic); err != nil {
		return models.Mechanic{}, utils.InternalError("An error occurred while retrieving the mechanic", err)
	}
	return mechanic, nil
}

func (s *MechanicService) Update(ctx context.Context, id string, input UpdateMechanicInput) (models.Mechanic, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Mechanic{}, err
	}

	patch := models.JSONB{}
	if input.FirstName != nil {
		patch["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		patch["last_name"] = *input.LastName
	}
	if input.Email != nil {
		if !utils.ValidateEmail(*input.Email) {
			return models.Mechanic{}, utils.ValidationError("email is not a valid address")
		}
		if *input.Email != existing.Email {
			taken, err := s.emailTaken(ctx, *input.Email, id)
			if err != nil {
				return models.Mechanic{}, utils.InternalError("An error occurred while updating the mechanic", err)
			}
			if taken {
				return models.Mechanic{}, utils.ConflictError("Mechanic with this email already exists")
			}
		}
		patch["email"] = *input.Email
	}
	if input.Phone != nil {
		patch["phone"] = *input.Phone
	}
	if input.Specialty != nil {
		patch["specialty"] = *input.Specialty
	}
	if input.HourlyRate != nil {
		if *input.HourlyRate < 0 {
			return models.Mechanic{}, utils.ValidationError("hourly_rate must not be negative")
		}
		patch["hourly_rate"] = *input.HourlyRate
	}
	if input.HireDate != nil {
		patch["hire_date"] = *input.HireDate
	}
	if len(patch) == 0 {
		return models.Mechanic{}, utils.ValidationError("No fields to update")
	}

	updated, err := s.store.Update(ctx, store.Mechanics, id, patch)
	if err != nil {
		return models.Mechanic{}, utils.InternalError("An error occurred while updating the mechanic", err)
	}
	var mechanic models.Mechanic
	if err := store.Decode(updated, &mechanic); err != nil {
		return models.Mechanic{}, utils.InternalError("An error occurred while updating the mechanic", err)
	}
	return mechanic, nil
}

func (s *MechanicService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.Mechanics, id); err != nil {
		if err == store.ErrNoDocument {
			return utils.NotFoundError("Mechanic not found")
		}
		return utils.InternalError("An error occurred while deleting the mechanic", err)
	}
	return nil
}

// Exists is the reference check the ticket core uses before adding an
// association.
func (s *MechanicService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Get(ctx, store.Mechanics, id)
	if err == store.ErrNoDocument {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MechanicService) emailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	docs, err := s.store.FindByField(ctx, store.Mechanics, "email", email)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if id, _ := doc["id"].(string); id != excludeID {
			return true, nil
		}
	}
	return false, nil
}
