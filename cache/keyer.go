package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Keyer generates deterministic cache keys from request parameters.
//
// Contract:
// - Determinism: same inputs must produce the same key, regardless of map
//   iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from an operation name and its parameters.
	Key(operation string, params map[string]any) (string, error)
}

// DefaultKeyer generates SHA-256 based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: gen:<operation>:<hash>
// where hash is the first 32 characters of SHA-256(canonical JSON(params)).
func (k *DefaultKeyer) Key(operation string, params map[string]any) (string, error) {
	if operation == "" {
		return "", ErrEmptyOperation
	}

	// Canonicalize params so equal requests fingerprint identically
	canonical, err := canonicalize(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCanonicalize, err)
	}

	hash := sha256.Sum256(canonical)
	hashStr := hex.EncodeToString(hash[:16]) // First 16 bytes = 32 hex chars

	return fmt.Sprintf("gen:%s:%s", operation, hashStr), nil
}

// canonicalize produces a deterministic JSON representation of the value.
// Maps are serialized with sorted keys so parameter order never matters.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
