package construct

import "maps"

// CloneExtensions copies an extension map along with the maps and slices
// nested in it, so a built value shares no container with its caller.
// Values of other types are copied as-is.
func CloneExtensions(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies the JSON-shaped containers found in extension
// values.
func CloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return CloneExtensions(v)
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = CloneValue(e)
		}
		return out
	case map[string]string:
		return maps.Clone(v)
	case []string:
		return append([]string(nil), v...)
	case []int:
		return append([]int(nil), v...)
	case []float64:
		return append([]float64(nil), v...)
	default:
		return v
	}
}
