package export

import (
	"bytes"
	"context"
	"testing"

	"painel/internal/core"
	"painel/internal/dashboard"
	"painel/internal/sheets"
	"painel/internal/sheets/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func contractsView(t *testing.T) dashboard.View {
	t.Helper()
	board := dashboard.NewBoard(map[core.Page]sheets.TableReader{
		core.Contracts: memory.New("Serviço ou Produto,Unidade,Custo\n" +
			"Limpeza,Sede,\"R$ 1.234,56\"\n" +
			"Portaria,Filial,100\n"),
	}, dashboard.Options{})
	d, err := board.Get("contratos")
	require.NoError(t, err)
	_, err = d.Refresh(context.Background())
	require.NoError(t, err)
	return d.View(nil)
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, contractsView(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Contratos", "Indicadores"}, f.GetSheetList())

	rows, err := f.GetRows("Contratos", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Serviço ou Produto", rows[0][0])
	assert.Equal(t, "Custo", rows[0][3])
	assert.Equal(t, "Limpeza", rows[1][0])
	assert.Equal(t, "1234.56", rows[1][3], "numeric columns are stored as numbers")
	assert.Equal(t, "-", rows[1][4])

	kpis, err := f.GetRows("Indicadores")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(kpis), 2)
	assert.Equal(t, []string{"Indicador", "Valor", "Exibição"}, kpis[0])
	assert.Equal(t, "Custo Total", kpis[1][0])
	assert.Equal(t, "R$ 1.334,56", kpis[1][2])
}

func TestXLSXEmptyTable(t *testing.T) {
	v := dashboard.View{Page: core.Services, Title: "Serviços", Table: dashboard.Table{
		Columns: []dashboard.Column{{Key: "unidade", Label: "Unidade"}, {Key: "faturamento", Label: "Faturamento", Numeric: true}},
	}}
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, v))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Serviços")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Unidade", "Faturamento"}}, rows)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Contratos", SheetName(" Contratos "))
	assert.Equal(t, "A-B", SheetName("A/B"))
	assert.Equal(t, "Dados", SheetName(""))
	assert.Equal(t, "Dados", SheetName("Indicadores"))
	assert.Len(t, []rune(SheetName("Um título muito comprido para uma planilha")), 31)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "painel-equipamentos.xlsx", Filename(dashboard.View{Page: core.Equipment}))
}
