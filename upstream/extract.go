package upstream

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ExtractList decodes the array found at the gjson path into a slice.
// A missing path (or null) is not an error and yields an empty slice.
func ExtractList[T any](body []byte, path string) ([]T, error) {
	res := gjson.GetBytes(body, path)
	if !res.Exists() || res.Type == gjson.Null {
		return []T{}, nil
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: %s is not an array", ErrDecode, path)
	}
	out := make([]T, 0, len(res.Array()))
	if err := json.Unmarshal([]byte(res.Raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return out, nil
}

// ExtractOne decodes the object found at the gjson path. It returns nil
// without error when the path is absent.
func ExtractOne[T any](body []byte, path string) (*T, error) {
	res := gjson.GetBytes(body, path)
	if !res.Exists() || res.Type == gjson.Null {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal([]byte(res.Raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return &out, nil
}

// Count returns the number of elements of the array at path, 0 if absent.
func Count(body []byte, path string) int {
	res := gjson.GetBytes(body, path)
	if !res.IsArray() {
		return 0
	}
	return len(res.Array())
}
