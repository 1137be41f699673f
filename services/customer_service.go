package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mechanicshop-backend/config"
	"mechanicshop-backend/models"
	"mechanicshop-backend/store"
	"mechanicshop-backend/utils"
)

// RegisterInput is the request body for customer registration. The
// customer's document id doubles as the credential subject id, so the
// credential (email + password hash) lives inside the profile
// document and is stripped before any response.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// UpdateCustomerInput carries a partial update; nil fields are left
// untouched.
type UpdateCustomerInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
}

type CustomerService struct {
	store *store.Store
	cache *CustomerCache
}

func NewCustomerService(st *store.Store, cache *CustomerCache) *CustomerService {
	return &CustomerService{store: st, cache: cache}
}

// Register validates the profile, provisions the credential (bcrypt
// hash of the password) and writes the customer document. A duplicate
// email fails before anything is written.
func (s *CustomerService) Register(ctx context.Context, input RegisterInput) (models.Customer, error) {
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
	if input.Password == "" {
		problems = append(problems, "password is required")
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		problems = append(problems, "phone is not a valid number")
	}
	if len(problems) > 0 {
		return models.Customer{}, utils.ValidationErrors(problems)
	}

	taken, err := s.emailTaken(ctx, input.Email, "")
	if err != nil {
		return models.Customer{}, utils.InternalError("An error occurred while creating the customer", err)
	}
	if taken {
		return models.Customer{}, utils.ConflictError("Customer with this email already exists")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return models.Customer{}, utils.InternalError("An error occurred while creating the customer", err)
	}

	customer := models.Customer{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hash,
		Phone:     input.Phone,
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		CreatedAt: time.Now().UTC(),
	}
	doc, err := store.Encode(customer)
	if err != nil {
		return models.Customer{}, utils.InternalError("An error occurred while creating the customer", err)
	}
	id, err := s.store.Create(ctx, store.Customers, doc)
	if err != nil {
		return models.Customer{}, utils.InternalError("An error occurred while creating the customer", err)
	}
	customer.ID = id
	return customer.Sanitized(), nil
}

// Login verifies the credential and issues a bearer token.
func (s *CustomerService) Login(ctx context.Context, email, password string) (string, models.Customer, error) {
	if email == "" || password == "" {
		return "", models.Customer{}, utils.ValidationError("email and password are required")
	}

	docs, err := s.store.FindByField(ctx, store.Customers, "email", email)
	if err != nil {
		return "", models.Customer{}, utils.InternalError("An error occurred during login", err)
	}
	if len(docs) == 0 {
		return "", models.Customer{}, utils.UnauthenticatedError("Invalid email or password")
	}

	var customer models.Customer
	if err := store.Decode(docs[0], &customer); err != nil {
		return "", models.Customer{}, utils.InternalError("An error occurred during login", err)
	}
	if !utils.CheckPasswordHash(password, customer.Password) {
		return "", models.Customer{}, utils.UnauthenticatedError("Invalid email or password")
	}

	token, err := utils.GenerateToken(customer.ID)
	if err != nil {
		return "", models.Customer{}, utils.InternalError("Failed to generate token", err)
	}
	return token, customer.Sanitized(), nil
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	docs, err := s.store.List(ctx, store.Customers)
	if err != nil {
		return nil, utils.InternalError("An error occurred while retrieving customers", err)
	}
	customers := make([]models.Customer, 0, len(docs))
	for _, doc := range docs {
		var customer models.Customer
		if err := store.Decode(doc, &customer); err != nil {
			return nil, utils.InternalError("An error occurred while retrieving customers", err)
		}
		customers = append(customers, customer.Sanitized())
	}
	return customers, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id string) (models.Customer, error) {
	if customer, ok := s.cache.Get(id); ok {
		return customer, nil
	}

	customer, err := s.fetch(ctx, id)
	if err != nil {
		return models.Customer{}, err
	}
	sanitized := customer.Sanitized()
	s.cache.Set(sanitized)
	return sanitized, nil
}

// Update merges the supplied fields into the caller's own profile.
// Callers can only touch their own account.
func (s *CustomerService) Update(ctx context.Context, callerID, id string, input UpdateCustomerInput) (models.Customer, error) {
	if callerID != id {
		return models.Customer{}, utils.ForbiddenError("You can only update your own account")
	}

	existing, err := s.fetch(ctx, id)
	if err != nil {
		return models.Customer{}, err
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
			return models.Customer{}, utils.ValidationError("email is not a valid address")
		}
		if *input.Email != existing.Email {
			taken, err := s.emailTaken(ctx, *input.Email, id)
			if err != nil {
				return models.Customer{}, utils.InternalError("An error occurred while updating the customer", err)
			}
			if taken {
				return models.Customer{}, utils.ConflictError("Customer with this email already exists")
			}
		}
		patch["email"] = *input.Email
	}
	if input.Password != nil {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			return models.Customer{}, utils.InternalError("An error occurred while updating the customer", err)
		}
		patch["password"] = hash
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			return models.Customer{}, utils.ValidationError("phone is not a valid number")
		}
		patch["phone"] = *input.Phone
	}
	if input.Address != nil {
		patch["address"] = *input.Address
	}
	if input.City != nil {
		patch["city"] = *input.City
	}
	if input.State != nil {
		patch["state"] = *input.State
	}
	if len(patch) == 0 {
		return models.Customer{}, utils.ValidationError("No fields to update")
	}

	updated, err := s.store.Update(ctx, store.Customers, id, patch)
	if err != nil {
		return models.Customer{}, utils.InternalError("An error occurred while updating the customer", err)
	}
	s.cache.Invalidate(id)

	var customer models.Customer
	if err := store.Decode(updated, &customer); err != nil {
		return models.Customer{}, utils.InternalError("An error occurred while updating the customer", err)
	}
	return customer.Sanitized(), nil
}

// Delete removes the caller's own profile and then every service
// ticket that referenced it. The cascade is sequential and best
// effort: a ticket deletion failure is logged and skipped, never
// rolled back.
func (s *CustomerService) Delete(ctx context.Context, callerID, id string) error {
	if callerID != id {
		return utils.ForbiddenError("You can only delete your own account")
	}

	if err := s.store.Delete(ctx, store.Customers, id); err != nil {
		if err == store.ErrNoDocument {
			return utils.NotFoundError("Customer not found")
		}
		return utils.InternalError("An error occurred while deleting the customer", err)
	}
	s.cache.Invalidate(id)

	tickets, err := s.store.FindByField(ctx, store.Tickets, "customer_id", id)
	if err != nil {
		config.Log.Error("cascade: listing tickets for deleted customer failed",
			zap.String("customer_id", id), zap.Error(err))
		return nil
	}
	for _, doc := range tickets {
		ticketID, _ := doc["id"].(string)
		if err := s.store.Delete(ctx, store.Tickets, ticketID); err != nil {
			config.Log.Error("cascade: deleting ticket failed",
				zap.String("customer_id", id),
				zap.String("ticket_id", ticketID),
				zap.Error(err))
		}
	}
	return nil
}

// Exists reports whether a customer document is present; used by the
// ticket core for reference validation (never via the cache).
func (s *CustomerService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.store.Get(ctx, store.Customers, id)
	if err == store.ErrNoDocument {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *CustomerService) fetch(ctx context.Context, id string) (models.Customer, error) {
	doc, err := s.store.Get(ctx, store.Customers, id)
	if err != nil {
		if err == store.ErrNoDocument {
			return models.Customer{}, utils.NotFoundError("Customer not found")
		}
		return models.Customer{}, utils.InternalError("An error occurred while retrieving the customer", err)
	}
	var customer models.Customer
	if err := store.Decode(doc, &customer); err != nil {
		return models.Customer{}, utils.InternalError("An error occurred while retrieving the customer", err)
	}
	return customer, nil
}

func (s *CustomerService) emailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	docs, err := s.store.FindByField(ctx, store.Customers, "email", email)
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
