// Package persistence contains helpers shared by the feed and its storage.
package persistence

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
)

// EncodeCursor serialises the cursor to an opaque token.
func EncodeCursor(c *domain.Cursor) string {
	if c == nil {
		return ""
	}
	raw := fmt.Sprintf("%s|%s", c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by EncodeCursor. An empty token
// decodes to a nil cursor.
func DecodeCursor(token string) (*domain.Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("decode cursor time: %w", err)
	}
	return &domain.Cursor{CreatedAt: ts, ID: parts[1]}, nil
}
