package aggregate

import "strings"

// Criteria holds single-field equality predicates keyed by field name.
// All of them must hold for a record to pass.
type Criteria map[string]string

// IsAll reports whether v is one of the "no filter" sentinels.
func IsAll(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "todos", "todas", "all":
		return true
	}
	return false
}

// Active returns the criteria without sentinel values.
func (c Criteria) Active() Criteria {
	out := make(Criteria, len(c))
	for k, v := range c {
		if !IsAll(v) {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}

// Filter keeps records whose field values equal every active criterion.
// field returns the record's value for a field name.
func Filter[T any](records []T, c Criteria, field func(T, string) string) []T {
	active := c.Active()
	if len(active) == 0 {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		keep := true
		for k, v := range active {
			if field(r, k) != v {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}
