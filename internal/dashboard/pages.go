package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"painel/internal/aggregate"
	"painel/internal/core"
	"painel/internal/ingest"
)

// Thresholds are the business windows used by the date based KPIs.
type Thresholds struct {
	ContractExpiryDays       int
	MaintenanceOverdueMonths int
}

// DefaultThresholds returns the stock 90 day and 6 month windows.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ContractExpiryDays:       aggregate.ContractExpiryWindowDays,
		MaintenanceOverdueMonths: aggregate.MaintenanceOverdueMonths,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.ContractExpiryDays > 0 {
		d.ContractExpiryDays = t.ContractExpiryDays
	}
	if t.MaintenanceOverdueMonths > 0 {
		d.MaintenanceOverdueMonths = t.MaintenanceOverdueMonths
	}
	return d
}

// definition binds a record type to its sheet schema and its figures.
type definition[T any] struct {
	page    core.Page
	title   string
	schema  ingest.Schema[T]
	filters []Column
	columns []Column
	// field returns the text of a filterable field.
	field func(T, string) string
	// cells renders a record as table text plus the raw numbers of numeric
	// columns.
	cells     func(T) ([]string, []float64)
	summarize func(records []T, now time.Time, th Thresholds) ([]KPI, []Chart)
}

func money(key, label string, v float64) KPI {
	return KPI{Key: key, Label: label, Value: v, Text: core.FormatBRL(v)}
}

func count(key, label string, n int) KPI {
	return KPI{Key: key, Label: label, Value: float64(n), Text: strconv.Itoa(n)}
}

func percent(key, label string, v float64) KPI {
	return KPI{Key: key, Label: label, Value: v, Text: core.FormatPercent(v)}
}

func chart(key, title, kind, unit string, datasets ...Dataset) Chart {
	return Chart{Key: key, Title: title, Kind: kind, Unit: unit, Datasets: datasets}
}

func contractsDefinition() definition[Contract] {
	return definition[Contract]{
		page:  core.Contracts,
		title: "Contratos",
		schema: ingest.Schema[Contract]{
			Name: string(core.Contracts),
			Fields: []ingest.Field{
				{Name: "servico", Synonyms: []string{"serviço ou produto"}, Required: true},
				{Name: "unidade", Synonyms: []string{"unidade"}},
				{Name: "fornecedor", Synonyms: []string{"fornecedor ou cliente", "fornecedor"}},
				{Name: "custo", Synonyms: []string{"custo", "# custo"}, Kind: ingest.Currency},
				{Name: "dataFinal", Synonyms: []string{"data final"}, Kind: ingest.Date},
				{Name: "responsavel", Synonyms: []string{"responsável"}},
			},
			Identity: []string{"servico"},
			Build: func(r ingest.Row) Contract {
				return Contract{
					Service:     r.Text("servico"),
					Unit:        r.Text("unidade"),
					Party:       r.Text("fornecedor"),
					Cost:        r.Amount("custo"),
					EndDate:     r.Date("dataFinal"),
					Responsible: r.Text("responsavel"),
				}
			},
		},
		filters: []Column{{Key: "unidade", Label: "Unidade"}, {Key: "fornecedor", Label: "Fornecedor"}},
		columns: []Column{
			{Key: "servico", Label: "Serviço ou Produto"},
			{Key: "unidade", Label: "Unidade"},
			{Key: "fornecedor", Label: "Fornecedor ou Cliente"},
			{Key: "custo", Label: "Custo", Numeric: true},
			{Key: "dataFinal", Label: "Data Final"},
			{Key: "responsavel", Label: "Responsável"},
		},
		field: func(c Contract, name string) string {
			switch name {
			case "servico":
				return c.Service
			case "unidade":
				return c.Unit
			case "fornecedor":
				return c.Party
			case "responsavel":
				return c.Responsible
			}
			return ""
		},
		cells: func(c Contract) ([]string, []float64) {
			text := []string{c.Service, c.Unit, c.Party, core.FormatBRL(c.Cost), c.EndDate.Display(), c.Responsible}
			return text, []float64{0, 0, 0, c.Cost, 0, 0}
		},
		summarize: func(records []Contract, now time.Time, th Thresholds) ([]KPI, []Chart) {
			cost := func(c Contract) float64 { return c.Cost }
			end := func(c Contract) core.Date { return c.EndDate }
			kpis := []KPI{
				money("custo_total", "Custo Total", aggregate.Sum(records, cost)),
				count("num_contratos", "Contratos", len(records)),
				count("vencendo", fmt.Sprintf("Vencendo em %d dias", th.ContractExpiryDays),
					aggregate.DueWithin(records, end, now, th.ContractExpiryDays)),
				money("media_custo", "Custo Médio", aggregate.Average(records, cost)),
				money("mediana_custo", "Custo Mediano", aggregate.Median(records, cost)),
			}
			charts := []Chart{
				chart("custo_por_unidade", "Custo por Unidade", ChartBar, UnitCurrency, Dataset{
					Label:  "Custo",
					Series: aggregate.GroupSum(records, func(c Contract) string { return c.Unit }, cost),
				}),
				chart("custo_por_fornecedor", "Custo por Fornecedor", ChartDoughnut, UnitCurrency, Dataset{
					Label:  "Custo",
					Series: aggregate.GroupSum(records, func(c Contract) string { return c.Party }, cost),
				}),
			}
			return kpis, charts
		},
	}
}

// needsRepair matches statuses such as "Em Reparo" or "Necessita reparo".
func needsRepair(e Equipment) bool {
	return strings.Contains(strings.ToLower(e.Status), "reparo")
}

func equipmentDefinition() definition[Equipment] {
	return definition[Equipment]{
		page:  core.Equipment,
		title: "Equipamentos",
		schema: ingest.Schema[Equipment]{
			Name: string(core.Equipment),
			Fields: []ingest.Field{
				{Name: "tag", Synonyms: []string{"tag do equipamento", "tag"}},
				{Name: "idAtivo", Synonyms: []string{"id do ativo"}},
				{Name: "nome", Synonyms: []string{"nome do equipamento", "nome"}},
				{Name: "localizacao", Synonyms: []string{"localização"}, Default: "Não Alocada"},
				{Name: "status", Synonyms: []string{"status"}, Default: "Não Definido"},
				{Name: "dataManutencao", Synonyms: []string{"data manutenção", "data da manutenção"}, Kind: ingest.FlexibleDate},
				{Name: "observacoes", Synonyms: []string{"observações"}},
			},
			Identity: []string{"tag", "nome"},
			Build: func(r ingest.Row) Equipment {
				return Equipment{
					Tag:             r.Text("tag"),
					AssetID:         r.Text("idAtivo"),
					Name:            r.Text("nome"),
					Location:        r.Text("localizacao"),
					Status:          r.Text("status"),
					MaintenanceDate: r.Date("dataManutencao"),
					Notes:           r.Text("observacoes"),
				}
			},
		},
		filters: []Column{{Key: "localizacao", Label: "Localização"}, {Key: "status", Label: "Status"}},
		columns: []Column{
			{Key: "tag", Label: "Tag"},
			{Key: "idAtivo", Label: "ID do Ativo"},
			{Key: "nome", Label: "Nome"},
			{Key: "localizacao", Label: "Localização"},
			{Key: "status", Label: "Status"},
			{Key: "dataManutencao", Label: "Data Manutenção"},
			{Key: "observacoes", Label: "Observações"},
		},
		field: func(e Equipment, name string) string {
			switch name {
			case "tag":
				return e.Tag
			case "nome":
				return e.Name
			case "localizacao":
				return e.Location
			case "status":
				return e.Status
			}
			return ""
		},
		cells: func(e Equipment) ([]string, []float64) {
			text := []string{e.Tag, e.AssetID, e.Name, e.Location, e.Status, e.MaintenanceDate.Display(), e.Notes}
			return text, make([]float64, len(text))
		},
		summarize: func(records []Equipment, now time.Time, th Thresholds) ([]KPI, []Chart) {
			maintenance := func(e Equipment) core.Date { return e.MaintenanceDate }
			kpis := []KPI{
				count("total_ativos", "Total de Ativos", len(records)),
				count("necessita_reparo", "Necessitam Reparo", aggregate.CountMatching(records, needsRepair)),
				count("atraso_manutencao", fmt.Sprintf("Manutenção Atrasada (%d meses)", th.MaintenanceOverdueMonths),
					aggregate.OverdueBefore(records, maintenance, now, th.MaintenanceOverdueMonths)),
			}
			charts := []Chart{
				chart("status", "Ativos por Status", ChartDoughnut, UnitCount, Dataset{
					Label:  "Ativos",
					Series: aggregate.GroupCount(records, func(e Equipment) string { return e.Status }),
				}),
				chart("localizacao", "Ativos por Localização", ChartBar, UnitCount, Dataset{
					Label:  "Ativos",
					Series: aggregate.GroupCount(records, func(e Equipment) string { return e.Location }),
				}),
			}
			return kpis, charts
		},
	}
}

func billingDefinition() definition[BillingItem] {
	return definition[BillingItem]{
		page:  core.Billing,
		title: "Faturamento",
		schema: ingest.Schema[BillingItem]{
			Name: string(core.Billing),
			Fields: []ingest.Field{
				{Name: "fornecedor", Synonyms: []string{"fornecedor"}},
				{Name: "unidade", Synonyms: []string{"unidade"}},
				{Name: "descricao", Synonyms: []string{"descrição do serviço", "descrição"}},
				{Name: "anterior", Synonyms: []string{"# valor anterior", "valor anterior"}, Kind: ingest.Currency},
				{Name: "atual", Synonyms: []string{"# valor atual", "valor atual"}, Kind: ingest.Currency},
				{Name: "economia", Synonyms: []string{"economia"}, Kind: ingest.Currency},
				{Name: "dataInstalacao", Synonyms: []string{"data de instalação"}, Kind: ingest.FlexibleDate},
			},
			Identity: []string{"fornecedor"},
			Build: func(r ingest.Row) BillingItem {
				return BillingItem{
					Supplier:      r.Text("fornecedor"),
					Unit:          r.Text("unidade"),
					Description:   r.Text("descricao"),
					PreviousValue: r.Amount("anterior"),
					CurrentValue:  r.Amount("atual"),
					Savings:       r.Amount("economia"),
					InstallDate:   r.Date("dataInstalacao"),
				}
			},
		},
		filters: []Column{{Key: "unidade", Label: "Unidade"}, {Key: "fornecedor", Label: "Fornecedor"}},
		columns: []Column{
			{Key: "fornecedor", Label: "Fornecedor"},
			{Key: "unidade", Label: "Unidade"},
			{Key: "descricao", Label: "Descrição do Serviço"},
			{Key: "valorAnterior", Label: "Valor Anterior", Numeric: true},
			{Key: "valorAtual", Label: "Valor Atual", Numeric: true},
			{Key: "economia", Label: "Economia", Numeric: true},
			{Key: "dataInstalacao", Label: "Data de Instalação"},
		},
		field: func(b BillingItem, name string) string {
			switch name {
			case "fornecedor":
				return b.Supplier
			case "unidade":
				return b.Unit
			}
			return ""
		},
		cells: func(b BillingItem) ([]string, []float64) {
			text := []string{
				b.Supplier, b.Unit, b.Description,
				core.FormatBRL(b.PreviousValue), core.FormatBRL(b.CurrentValue), core.FormatBRL(b.Savings),
				b.InstallDate.Display(),
			}
			return text, []float64{0, 0, 0, b.PreviousValue, b.CurrentValue, b.Savings, 0}
		},
		summarize: func(records []BillingItem, now time.Time, _ Thresholds) ([]KPI, []Chart) {
			previous := func(b BillingItem) float64 { return b.PreviousValue }
			current := func(b BillingItem) float64 { return b.CurrentValue }
			savings := func(b BillingItem) float64 { return b.Savings }
			installed := func(b BillingItem) core.Date { return b.InstallDate }
			unit := func(b BillingItem) string { return b.Unit }
			kpis := []KPI{
				money("valor_anterior", "Valor Anterior", aggregate.Sum(records, previous)),
				money("valor_atual", "Valor Atual", aggregate.Sum(records, current)),
				money("economia", "Economia", aggregate.Sum(records, savings)),
				money("faturamento_total", "Faturamento Acumulado", aggregate.ProjectRevenue(records, installed, current, now)),
			}
			charts := []Chart{
				chart("economia_por_fornecedor", "Economia por Fornecedor", ChartDoughnut, UnitCurrency, Dataset{
					Label:  "Economia",
					Series: aggregate.GroupSum(records, func(b BillingItem) string { return b.Supplier }, savings),
				}),
				chart("valores_por_unidade", "Valores por Unidade", ChartBar, UnitCurrency,
					Dataset{Label: "Valor Anterior", Series: aggregate.GroupSum(records, unit, previous)},
					Dataset{Label: "Valor Atual", Series: aggregate.GroupSum(records, unit, current)},
				),
			}
			return kpis, charts
		},
	}
}

func servicesDefinition() definition[ServiceItem] {
	return definition[ServiceItem]{
		page:  core.Services,
		title: "Serviços",
		schema: ingest.Schema[ServiceItem]{
			Name: string(core.Services),
			Fields: []ingest.Field{
				{Name: "unidade", Synonyms: []string{"unidade"}},
				{Name: "cliente", Synonyms: []string{"cliente"}},
				{Name: "descricao", Synonyms: []string{"descrição"}},
				{Name: "faturamento", Synonyms: []string{"# valor do serviço", "valor do serviço", "faturamento"}, Kind: ingest.Currency},
				{Name: "custo", Synonyms: []string{"# custo", "custo"}, Kind: ingest.Currency},
				{Name: "lucro", Synonyms: []string{"lucro"}, Kind: ingest.Currency},
				{Name: "observacoes", Synonyms: []string{"observações"}},
			},
			Identity: []string{"unidade", "cliente"},
			Build: func(r ingest.Row) ServiceItem {
				return ServiceItem{
					Unit:        r.Text("unidade"),
					Client:      r.Text("cliente"),
					Description: r.Text("descricao"),
					Revenue:     r.Amount("faturamento"),
					Cost:        r.Amount("custo"),
					Profit:      r.Amount("lucro"),
					Notes:       r.Text("observacoes"),
				}
			},
		},
		filters: []Column{{Key: "unidade", Label: "Unidade"}, {Key: "cliente", Label: "Cliente"}},
		columns: []Column{
			{Key: "unidade", Label: "Unidade"},
			{Key: "cliente", Label: "Cliente"},
			{Key: "descricao", Label: "Descrição"},
			{Key: "faturamento", Label: "Faturamento", Numeric: true},
			{Key: "custo", Label: "Custo", Numeric: true},
			{Key: "lucro", Label: "Lucro", Numeric: true},
			{Key: "observacoes", Label: "Observações"},
		},
		field: func(s ServiceItem, name string) string {
			switch name {
			case "unidade":
				return s.Unit
			case "cliente":
				return s.Client
			}
			return ""
		},
		cells: func(s ServiceItem) ([]string, []float64) {
			text := []string{
				s.Unit, s.Client, s.Description,
				core.FormatBRL(s.Revenue), core.FormatBRL(s.Cost), core.FormatBRL(s.Profit),
				s.Notes,
			}
			return text, []float64{0, 0, 0, s.Revenue, s.Cost, s.Profit, 0}
		},
		summarize: func(records []ServiceItem, _ time.Time, _ Thresholds) ([]KPI, []Chart) {
			revenue := func(s ServiceItem) float64 { return s.Revenue }
			profit := func(s ServiceItem) float64 { return s.Profit }
			totalRevenue := aggregate.Sum(records, revenue)
			totalProfit := aggregate.Sum(records, profit)
			kpis := []KPI{
				money("faturamento", "Faturamento", totalRevenue),
				money("custo", "Custo", aggregate.Sum(records, func(s ServiceItem) float64 { return s.Cost })),
				money("lucro", "Lucro", totalProfit),
				percent("margem", "Margem", aggregate.Margin(totalProfit, totalRevenue)),
				count("itens", "Serviços", len(records)),
			}
			charts := []Chart{
				chart("faturamento_por_unidade", "Faturamento por Unidade", ChartBar, UnitCurrency, Dataset{
					Label:  "Faturamento",
					Series: aggregate.GroupSum(records, func(s ServiceItem) string { return s.Unit }, revenue),
				}),
				chart("lucro_por_cliente", "Lucro por Cliente", ChartDoughnut, UnitCurrency, Dataset{
					Label:  "Lucro",
					Series: aggregate.GroupSum(records, func(s ServiceItem) string { return s.Client }, profit),
				}),
			}
			return kpis, charts
		},
	}
}
