package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
}

// CVRecord is the stored metadata of an uploaded CV: where the file lives,
// the skills extracted from it, and the extraction statistics.
type CVRecord struct {
	CVID        uuid.UUID       `json:"cv_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Filename    string          `json:"filename"`
	FilePath    string          `json:"-"`
	TextExcerpt string          `json:"text_excerpt"`
	Skills      StringArray     `json:"skills"`
	BySource    json.RawMessage `json:"skills_by_source,omitempty"`
	Stats       json.RawMessage `json:"stats,omitempty"`
	UploadedAt  time.Time       `json:"uploaded_at"`
}

// StringArray is a []string stored as JSONB.
type StringArray []string

// Scan implements the Scanner interface for StringArray.
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = []string{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, a)
}

// Value implements the Valuer interface for StringArray.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}
