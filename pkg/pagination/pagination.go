package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many entries any page can request.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor points just past the last entry of the previous page. ID is that
// entry's identifier and detects lists rewritten since the cursor was issued.
type Cursor struct {
	Offset int
	ID     string
}

// Page is one window over an append-only list.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeCursor builds a base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%d|%s", cursor.Offset, cursor.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	offset, err := strconv.Atoi(parts[0])
	if err != nil || offset < 1 {
		return nil, fmt.Errorf("invalid cursor offset %q", parts[0])
	}
	return &Cursor{Offset: offset, ID: parts[1]}, nil
}

// Slice returns the page of items selected by p. idOf names an entry so a
// cursor can be checked against the list it is applied to.
func Slice[T any](items []T, p Params, idOf func(T) string) (Page[T], error) {
	limit := NormalizeLimit(p.Limit)
	cursor, err := ParseCursor(p.Cursor)
	if err != nil {
		return Page[T]{}, err
	}

	start := 0
	if cursor != nil {
		if cursor.Offset > len(items) || idOf(items[cursor.Offset-1]) != cursor.ID {
			return Page[T]{}, fmt.Errorf("cursor no longer matches the list")
		}
		start = cursor.Offset
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	page := Page[T]{Items: append(make([]T, 0, end-start), items[start:end]...)}
	if end < len(items) {
		page.NextCursor = EncodeCursor(Cursor{Offset: end, ID: idOf(items[end-1])})
	}
	return page, nil
}
