package corpusapi

import (
	"encoding/base64"
	"encoding/json"
)

// CursorVersion is the current cursor schema version.
const CursorVersion = 1

// Cursor tracks pagination progress so an interrupted run can resume.
// Pagination itself is strictly sequential; the cursor only records the next
// page to fetch.
type Cursor struct {
	// Version is the schema version for future migrations.
	Version int `json:"v"`

	// NextPage is the next page index to request.
	NextPage int `json:"next_page"`
}

// NewCursor creates a cursor starting at the given page.
func NewCursor(page int) *Cursor {
	return &Cursor{
		Version:  CursorVersion,
		NextPage: page,
	}
}

// Encode serializes the cursor to a base64-encoded JSON string.
func (c *Cursor) Encode() string {
	if c == nil {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeCursor deserializes a cursor from a base64-encoded JSON string.
// Returns nil for empty input, ErrInvalidCursor for malformed input.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, ErrInvalidCursor
	}
	if cursor.NextPage <= 0 {
		return nil, ErrInvalidCursor
	}

	return &cursor, nil
}
