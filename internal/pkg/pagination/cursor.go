package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Cursor is the opaque pagination state we encode/decode.
// UserID + UpdatedUnix (in millis) establish a stable cursor over
// (updated_at DESC, user_id DESC) orderings.
type Cursor struct {
	UserID      uuid.UUID `json:"user_id"`
	UpdatedUnix int64     `json:"updated_unix,omitempty"`
}

// IsZero reports whether the cursor points at the first page
func (c Cursor) IsZero() bool {
	return c.UserID == uuid.Nil && c.UpdatedUnix == 0
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token")
	}
	return c, nil
}
