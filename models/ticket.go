package models

import "time"

// Service ticket status literals. The API accepts transitions between
// any of these in any order; only the first move to Completed has a
// side effect (completed_at is stamped once and never cleared).
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// ValidStatus reports whether s is one of the four status literals.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ServiceTicket carries its mechanic and part associations as id
// sequences with set semantics: no duplicates, and every id must
// reference an existing document at the time it is added. The store
// has no foreign keys, so the ticket service maintains both rules.
type ServiceTicket struct {
	ID            string   `json:"id"`
	CustomerID    string   `json:"customer_id"`
	VehicleYear   *int     `json:"vehicle_year,omitempty"`
	VehicleMake   string   `json:"vehicle_make,omitempty"`
	VehicleModel  string   `json:"vehicle_model,omitempty"`
	VehicleVIN    string   `json:"vehicle_vin,omitempty"`
	Description   string   `json:"description"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	ActualCost    *float64 `json:"actual_cost"`
	Status        string   `json:"status"`
	MechanicIDs   []string `json:"mechanic_ids"`
	InventoryIDs  []string `json:"inventory_ids"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
