// Package pagination implements keyset (cursor) pagination for the admin
// list endpoints. Rows are ordered by (created_at DESC, id DESC) and the
// cursor names the last row of the previous page, so pages stay stable
// while new products, coupons, or orders are being created.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when the client sends none.
	DefaultLimit = 25
	// MaxLimit is the largest page size any list query will honor.
	MaxLimit = 100
)

// Params carries the client-supplied page size and opaque cursor.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor identifies the last row of a page in (created_at, id) keyset order.
type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        uuid.UUID `json:"id"`
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit], applying
// DefaultLimit when the request carries none.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer is the row count to fetch: one past the page size, so the
// repository can tell whether another page exists without a count query.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor serializes a cursor into the opaque token handed to clients.
func EncodeCursor(cursor Cursor) string {
	cursor.CreatedAt = cursor.CreatedAt.UTC()
	payload, err := json.Marshal(cursor)
	if err != nil {
		// Cursor fields are a time and a UUID; marshal cannot fail.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(payload)
}

// ParseCursor decodes a client-supplied token. An empty token means "first
// page" and yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	var cursor Cursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return nil, fmt.Errorf("parse cursor: %w", err)
	}
	if cursor.CreatedAt.IsZero() || cursor.ID == uuid.Nil {
		return nil, fmt.Errorf("incomplete cursor")
	}
	return &cursor, nil
}
