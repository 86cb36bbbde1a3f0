package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/duynhne/franchise-service/internal/core/domain"
)

// ErrMalformedValue reports a stored value that is not valid JSON for the
// expected type. LoadJSON has already removed the key when it is returned.
var ErrMalformedValue = errors.New("malformed stored value")

// LoadJSON decodes the value at key into dest. Absent keys report
// found=false. Malformed values are treated as absent: the key is removed and
// ErrMalformedValue is returned so the caller can log it.
func LoadJSON(ctx context.Context, s domain.Storage, key string, dest any) (bool, error) {
	raw, found, err := s.GetItem(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %q: %w", key, err)
	}
	if !found || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		if rmErr := s.RemoveItem(ctx, key); rmErr != nil {
			return false, fmt.Errorf("clear malformed %q: %w", key, rmErr)
		}
		return false, fmt.Errorf("decode %q: %w: %v", key, ErrMalformedValue, err)
	}
	return true, nil
}

// SaveJSON encodes v and writes it to key.
func SaveJSON(ctx context.Context, s domain.Storage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.SetItem(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}
