package models

import "time"

type Mechanic struct {
	ID         string   `json:"id"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Specialty  string   `json:"specialty,omitempty"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
	HireDate   string   `json:"hire_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
