package models

import "time"

type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	// Bcrypt hash. Stripped from every API response.
	Password string `json:"password,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Sanitized returns a copy safe to hand back to clients.
func (c Customer) Sanitized() Customer {
	c.Password = ""
	return c
}
