// Package export renders dashboard views as spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"

	"painel/internal/dashboard"

	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of the files written by XLSX.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const kpiSheet = "Indicadores"

// moneyFormat is the built-in "#,##0.00" number format.
const moneyFormat = 4

// XLSX writes the view's table to w as a workbook. The first sheet holds
// the filtered rows, with numeric columns stored as numbers; the second
// holds the KPIs.
func XLSX(w io.Writer, v dashboard.View) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(v.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(v.Table.Columns))
	for i, c := range v.Table.Columns {
		header[i] = c.Label
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, text := range v.Table.Rows {
		row := make([]any, len(text))
		for j, cell := range text {
			row[j] = cell
			if j < len(v.Table.Columns) && v.Table.Columns[j].Numeric && i < len(v.Table.Values) && j < len(v.Table.Values[i]) {
				row[j] = v.Table.Values[i][j]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := styleTable(f, sheet, v.Table); err != nil {
		return err
	}
	if err := writeKPIs(f, v.KPIs); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func styleTable(f *excelize.File, sheet string, t dashboard.Table) error {
	if len(t.Columns) == 0 {
		return nil
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	last, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		return nil
	}
	for i, c := range t.Columns {
		if !c.Numeric {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, col+"2", fmt.Sprintf("%s%d", col, len(t.Rows)+1), money); err != nil {
			return err
		}
	}
	return nil
}

func writeKPIs(f *excelize.File, kpis []dashboard.KPI) error {
	if _, err := f.NewSheet(kpiSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", kpiSheet, err)
	}
	header := []any{"Indicador", "Valor", "Exibição"}
	if err := f.SetSheetRow(kpiSheet, "A1", &header); err != nil {
		return err
	}
	for i, k := range kpis {
		row := []any{k.Label, k.Value, k.Text}
		if err := f.SetSheetRow(kpiSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

// SheetName makes title usable as a worksheet name: at most 31 characters
// and none of : \ / ? * [ ].
func SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" || name == kpiSheet {
		name = "Dados"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

// Filename returns the attachment name for a page export.
func Filename(v dashboard.View) string {
	return "painel-" + v.Page.String() + ".xlsx"
}
