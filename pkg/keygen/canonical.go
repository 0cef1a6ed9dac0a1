package keygen

import (
	"encoding/json"
	"fmt"
	"sort"
)

// canonicalize produces a deterministic JSON representation of an options
// value. Maps are serialized with sorted keys so insertion order never
// changes the output.
func canonicalize(v any) []byte {
	if v == nil {
		return []byte("{}")
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			// Unmarshalable values still need a deterministic representation.
			data, _ = json.Marshal(fmt.Sprintf("%v", v))
		}
		return data
	}
}

func canonicalizeMap(m map[string]any) []byte {
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
		keyBytes, _ := json.Marshal(k)
		result = append(result, keyBytes...)
		result = append(result, ':')
		result = append(result, canonicalize(m[k])...)
	}
	return append(result, '}')
}

func canonicalizeSlice(s []any) []byte {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}
		result = append(result, canonicalize(v)...)
	}
	return append(result, ']')
}

// stringify renders an options value as a plain string for component
// treatment. Strings pass through unchanged.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return string(canonicalize(v))
}
