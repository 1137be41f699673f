// Package store adapts the relational connection into the flat
// document-collection shape the services work against: named
// collections of JSON records keyed by store-assigned string ids,
// with equality and array-contains queries and uniqueness-preserving
// array mutation. No foreign keys and no multi-document transactions
// exist at this layer; referential consistency between collections is
// the caller's job.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mechanicshop-backend/models"
)

// Collection names used by the application.
const (
	Customers = "customers"
	Mechanics = "mechanics"
	Inventory = "inventory"
	Tickets   = "serviceTickets"
)

// ErrNoDocument is returned when a collection has no record with the
// requested id.
var ErrNoDocument = errors.New("document not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the backing table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Document{})
}

// Create inserts a new document and returns its assigned id. The id is
// also written into the document body under "id".
func (s *Store) Create(ctx context.Context, collection string, data models.JSONB) (string, error) {
	id := uuid.NewString()
	body := make(models.JSONB, len(data)+1)
	for k, v := range data {
		body[k] = v
	}
	body["id"] = id

	doc := models.Document{
		Collection: collection,
		ID:         id,
		Data:       body,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return "", err
	}
	return id, nil
}

// Get fetches a single document body.
func (s *Store) Get(ctx context.Context, collection, id string) (models.JSONB, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return doc.Data, nil
}

// List returns every document body in a collection, in insertion order.
func (s *Store) List(ctx context.Context, collection string) ([]models.JSONB, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.JSONB, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Data)
	}
	return out, nil
}

// Update merges patch into the stored body and returns the result.
// Keys present in patch overwrite stored keys; a nil patch value
// writes an explicit null.
func (s *Store) Update(ctx context.Context, collection, id string, patch models.JSONB) (models.JSONB, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDocument
		}
		return nil, err
	}

	for k, v := range patch {
		doc.Data[k] = v
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(&doc).Error; err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Delete removes a document. ErrNoDocument when it was never there.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&models.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoDocument
	}
	return nil
}

// FindByField returns all documents whose top-level field equals value.
// The store keeps no secondary indexes; this scans the collection,
// which is acceptable for the equality queries the services need.
func (s *Store) FindByField(ctx context.Context, collection, field string, value interface{}) ([]models.JSONB, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	var out []models.JSONB
	for _, d := range docs {
		if d[field] == value {
			out = append(out, d)
		}
	}
	return out, nil
}

// FindArrayContains returns all documents whose top-level string-array
// field contains value.
func (s *Store) FindArrayContains(ctx context.Context, collection, field, value string) ([]models.JSONB, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	var out []models.JSONB
	for _, d := range docs {
		if containsString(d[field], value) {
			out = append(out, d)
		}
	}
	return out, nil
}

// AddUnique appends value to the document's string-array field iff it
// is not already present. Reports false without error when the value
// was already there. The check and the write are separate store calls,
// so two racing adds for the same value can both pass the check; a
// conditional-update primitive on the documents table would close that
// gap if it ever matters in practice.
func (s *Store) AddUnique(ctx context.Context, collection, id, field, value string) (bool, error) {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return false, err
	}
	current := stringSlice(doc[field])
	for _, v := range current {
		if v == value {
			return false, nil
		}
	}
	_, err = s.Update(ctx, collection, id, models.JSONB{field: append(current, value)})
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveByValue removes value from the document's string-array field.
// Reports false without error when the value was not present.
func (s *Store) RemoveByValue(ctx context.Context, collection, id, field, value string) (bool, error) {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return false, err
	}
	current := stringSlice(doc[field])
	kept := make([]string, 0, len(current))
	removed := false
	for _, v := range current {
		if v == value && !removed {
			removed = true
			continue
		}
		kept = append(kept, v)
	}
	if !removed {
		return false, nil
	}
	_, err = s.Update(ctx, collection, id, models.JSONB{field: kept})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Encode converts a typed model into a document body.
func Encode(v interface{}) (models.JSONB, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc models.JSONB
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode converts a document body into a typed model.
func Decode(doc models.JSONB, out interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func containsString(field interface{}, value string) bool {
	for _, v := range stringSlice(field) {
		if v == value {
			return true
		}
	}
	return false
}

// stringSlice coerces a decoded JSON array field ([]interface{} after
// a round-trip through the column) into []string.
func stringSlice(field interface{}) []string {
	switch vs := field.(type) {
	case []string:
		return vs
	case []interface{}:
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
