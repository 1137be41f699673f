package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Document is a single record in a named collection. The record body is
// stored as a schemaless JSON map; the store assigns the id.
type Document struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:64"`
	Data       JSONB  `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// JSONB is a JSON document body. Works as jsonb on Postgres and as a
// plain text column on SQLite.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("unsupported type for JSONB column")
	}
}
