package models

// Inventory is a stockable part that service tickets reference.
type Inventory struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
