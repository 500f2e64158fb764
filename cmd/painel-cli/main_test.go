package main

import (
	"bytes"
	"testing"

	"painel/internal/aggregate"
	"painel/internal/dashboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestParseFilters(t *testing.T) {
	got, err := parseFilters([]string{"unidade = Sede", "status=Ativo"})
	require.NoError(t, err)
	assert.Equal(t, "Sede", got["unidade"])
	assert.Equal(t, "Ativo", got["status"])

	_, err = parseFilters([]string{"unidade"})
	assert.Error(t, err)

	_, err = parseFilters([]string{"=Sede"})
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "R$ 1.234.567,00", formatValue(dashboard.UnitCurrency, 1234567))
	assert.Equal(t, "R$ 0,50", formatValue(dashboard.UnitCurrency, 0.5))
	assert.Equal(t, "3", formatValue(dashboard.UnitCount, 3))
	assert.Equal(t, "0", formatValue(dashboard.UnitCount, 0))
}

func TestPrintViewFormatsSeriesByUnit(t *testing.T) {
	view := dashboard.View{
		Title: "Equipamentos",
		Charts: []dashboard.Chart{
			{Title: "Ativos por Status", Unit: dashboard.UnitCount, Datasets: []dashboard.Dataset{
				{Label: "Ativos", Series: aggregate.Series{{Label: "Ativo", Value: 3}}},
			}},
			{Title: "Custo por Unidade", Unit: dashboard.UnitCurrency, Datasets: []dashboard.Dataset{
				{Label: "Custo", Series: aggregate.Series{{Label: "Sede", Value: 1234567}}},
			}},
		},
	}

	var buf bytes.Buffer
	app := &cli.App{Writer: &buf}
	require.NoError(t, printView(cli.NewContext(app, nil, nil), view))

	out := buf.String()
	assert.Regexp(t, `Ativo\s+3\n`, out)
	assert.Contains(t, out, "R$ 1.234.567,00")
	assert.NotContains(t, out, "3,00")
}
