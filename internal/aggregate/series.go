// Package aggregate computes dashboard figures from decoded records.
//
// Every function is pure: it takes the current record snapshot and returns
// a fresh value. Nothing here keeps state between calls.
package aggregate

// Point is one labelled value of a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered label to value mapping. Order is the first-seen
// order of the labels in the source records.
type Series []Point

// Labels returns the series labels in order.
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Label
	}
	return out
}

// Values returns the series values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Get returns the value for label.
func (s Series) Get(label string) (float64, bool) {
	for _, p := range s {
		if p.Label == label {
			return p.Value, true
		}
	}
	return 0, false
}

// Total sums the series values.
func (s Series) Total() float64 {
	return Sum([]Point(s), func(p Point) float64 { return p.Value })
}
