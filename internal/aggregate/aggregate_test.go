package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	unit string
	cost float64
}

func unitOf(i item) string { return i.unit }
func costOf(i item) float64 { return i.cost }

func TestGroupSumFirstSeenOrder(t *testing.T) {
	records := []item{{"A", 100}, {"B", 50}, {"A", 25}}

	got := GroupSum(records, unitOf, costOf)

	require.Len(t, got, 2)
	assert.Equal(t, Series{{Label: "A", Value: 125}, {Label: "B", Value: 50}}, got)
	assert.Equal(t, []string{"A", "B"}, got.Labels())
	assert.InDelta(t, 175, got.Total(), 1e-9)
}

func TestGroupSumSkipsBlankKeys(t *testing.T) {
	records := []item{{"", 10}, {"  ", 5}, {"C", 1}}
	got := GroupSum(records, unitOf, costOf)
	assert.Equal(t, Series{{Label: "C", Value: 1}}, got)
	assert.Empty(t, GroupSum(nil, unitOf, costOf))
}

func TestGroupCount(t *testing.T) {
	records := []item{{"Ativo", 0}, {"Em Reparo", 0}, {"Ativo", 0}, {"", 0}}
	got := GroupCount(records, unitOf)
	assert.Equal(t, Series{{Label: "Ativo", Value: 2}, {Label: "Em Reparo", Value: 1}}, got)
}

func TestSumIsExact(t *testing.T) {
	records := make([]item, 10)
	for i := range records {
		records[i] = item{cost: 0.1}
	}
	assert.Equal(t, 1.0, Sum(records, costOf))
	assert.Equal(t, 0.0, Sum([]item(nil), costOf))
}

func TestAverageAndMedian(t *testing.T) {
	assert.Equal(t, 0.0, Average([]item{}, costOf))
	assert.Equal(t, 0.0, Median([]item{}, costOf))

	records := []item{{cost: 10}, {cost: 20}, {cost: 90}}
	assert.InDelta(t, 40, Average(records, costOf), 1e-9)
	assert.InDelta(t, 20, Median(records, costOf), 1e-9)
}

func TestMargin(t *testing.T) {
	assert.Equal(t, 0.0, Margin(0, 0))
	assert.Equal(t, 0.0, Margin(50, 0))
	assert.InDelta(t, 25, Margin(250, 1000), 1e-9)
	assert.InDelta(t, -10, Margin(-100, 1000), 1e-9)
}

func TestCountMatching(t *testing.T) {
	records := []item{{"Necessita Reparo", 0}, {"Ativo", 0}, {"em reparo", 0}}
	n := CountMatching(records, func(i item) bool { return i.unit == "Ativo" })
	assert.Equal(t, 1, n)
}

func TestDistinct(t *testing.T) {
	records := []item{{"Sede", 0}, {"Filial", 0}, {"", 0}, {"Sede", 0}, {"Anexo", 0}}
	assert.Equal(t, []string{"Anexo", "Filial", "Sede"}, Distinct(records, unitOf))
	assert.Equal(t, []string{}, Distinct([]item{}, unitOf))
}

func TestSumIgnoresNonFiniteValues(t *testing.T) {
	records := []item{{"A", 10}, {"A", math.Inf(1)}, {"B", math.NaN()}, {"B", 5}}

	assert.NotPanics(t, func() {
		assert.InDelta(t, 15, Sum(records, costOf), 1e-9)
		assert.Equal(t, Series{{Label: "A", Value: 10}, {Label: "B", Value: 5}}, GroupSum(records, unitOf, costOf))
	})
}
