package variables

import "sort"

// Expander is the part of a VariableProvider needed to expand option trees.
type Expander interface {
	Expand(s string) string
}

// ExpandOptions returns a deep copy of opts with every string value expanded.
// Map keys are not expanded.
func ExpandOptions(x Expander, opts map[string]any) map[string]any {
	if opts == nil {
		return nil
	}
	out := make(map[string]any, len(opts))
	for k, v := range opts {
		out[k] = expandValue(x, v)
	}
	return out
}

func expandValue(x Expander, v any) any {
	switch val := v.(type) {
	case string:
		return x.Expand(val)
	case map[string]any:
		return ExpandOptions(x, val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = expandValue(x, item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = x.Expand(item)
		}
		return out
	default:
		return v
	}
}

// DetectOptions lists the variables referenced anywhere in opts, sorted.
func DetectOptions(opts map[string]any) []string {
	seen := map[string]bool{}
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case string:
			for _, name := range Detect(val) {
				seen[name] = true
			}
		case map[string]any:
			for _, item := range val {
				walk(item)
			}
		case []any:
			for _, item := range val {
				walk(item)
			}
		case []string:
			for _, item := range val {
				walk(item)
			}
		}
	}
	walk(opts)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
