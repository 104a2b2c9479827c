package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"folio/site/internal/content"
)

// AuthorID is the primary key of the singleton author profile.
const AuthorID = "main"

// LinkList is stored as a JSON array of {label,url} objects.
type LinkList []content.Link

func (l *LinkList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan link list: unsupported type %T", src)
	}
	var out []content.Link
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan link list: %w", err)
	}
	*l = out
	return nil
}

func (l LinkList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	encoded, err := json.Marshal([]content.Link(l))
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

type Author struct {
	ID          string             `db:"id"`
	Name        *string            `db:"name"`
	Credentials content.StringList `db:"credentials"`
	LinkedIn    *string            `db:"linkedin"`
	Email       *string            `db:"email"`
	OtherLinks  LinkList           `db:"other_links"`
}

type Comment struct {
	ID          string    `db:"id"`
	ContentID   string    `db:"content_id"`
	AuthorName  string    `db:"author_name"`
	AuthorEmail string    `db:"author_email"`
	Comment     string    `db:"comment"`
	Approved    bool      `db:"approved"`
	CreatedAt   time.Time `db:"created_at"`
}

type Reaction struct {
	ID           string    `db:"id"`
	ContentID    string    `db:"content_id"`
	ReactionType string    `db:"reaction_type"`
	UserIP       string    `db:"user_ip"`
	CreatedAt    time.Time `db:"created_at"`
}

// ReactionCount is one row of the per-type aggregate.
type ReactionCount struct {
	ReactionType string `db:"reaction_type"`
	Count        int    `db:"count"`
}
