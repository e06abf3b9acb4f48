package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary metadata fields as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

// User is a wiki account as seen by the reference host stores.
type User struct {
	bun.BaseModel `bun:"table:badge_users"`
	RecordMeta

	// Name is the normalized user name (first letter upper case, spaces).
	// Uniqueness among live rows is enforced by the repositories so names
	// can be reused after a soft delete.
	Name string `bun:",nullzero,notnull" json:"name"`
}

// Exists reports whether the record refers to a stored account.
func (u *User) Exists() bool {
	return u != nil && u.ID != uuid.Nil
}

// Group is a permission group known to the host.
type Group struct {
	bun.BaseModel `bun:"table:badge_groups"`
	RecordMeta

	Name string `bun:",nullzero,notnull" json:"name"`
	// Position keeps the host enumeration order stable.
	Position int `bun:",notnull,default:0" json:"position"`
}

// GroupMembership links a user to a group.
type GroupMembership struct {
	bun.BaseModel `bun:"table:badge_group_memberships"`
	RecordMeta

	UserID   uuid.UUID `bun:",type:uuid,notnull" json:"user_id"`
	Group    string    `bun:"group_name,nullzero,notnull" json:"group"`
	Position int       `bun:",notnull,default:0" json:"position"`
}

// File is an entry of the host file repository.
type File struct {
	bun.BaseModel `bun:"table:badge_files"`
	RecordMeta

	// Name is the title text without the File: prefix.
	Name string `bun:",nullzero,notnull" json:"name"`
	// URL is the fully qualified URL of the file.
	URL string `bun:",nullzero,notnull" json:"url"`
	// Local files are stored by this wiki; foreign files always exist.
	Local bool `bun:",notnull,default:false" json:"local"`
	// Exists is only meaningful for local files.
	Exists   bool    `bun:"file_exists,notnull,default:false" json:"exists"`
	Metadata JSONMap `bun:"type:jsonb,nullzero" json:"metadata,omitempty"`
}

// Available reports whether the file can be served.
func (f *File) Available() bool {
	if f == nil {
		return false
	}
	return !f.Local || f.Exists
}
