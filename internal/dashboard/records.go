package dashboard

import "painel/internal/core"

// Contract is one row of the contracts sheet.
type Contract struct {
	Service     string    `json:"servico"`
	Unit        string    `json:"unidade"`
	Party       string    `json:"fornecedor"`
	Cost        float64   `json:"custo"`
	EndDate     core.Date `json:"dataFinal"`
	Responsible string    `json:"responsavel"`
}

// Equipment is one asset of the equipment sheet.
type Equipment struct {
	Tag             string    `json:"tag"`
	AssetID         string    `json:"idAtivo"`
	Name            string    `json:"nome"`
	Location        string    `json:"localizacao"`
	Status          string    `json:"status"`
	MaintenanceDate core.Date `json:"dataManutencao"`
	Notes           string    `json:"observacoes"`
}

// BillingItem is one supplier line of the billing sheet.
type BillingItem struct {
	Supplier      string    `json:"fornecedor"`
	Unit          string    `json:"unidade"`
	Description   string    `json:"descricao"`
	PreviousValue float64   `json:"valorAnterior"`
	CurrentValue  float64   `json:"valorAtual"`
	Savings       float64   `json:"economia"`
	InstallDate   core.Date `json:"dataInstalacao"`
}

// ServiceItem is one client line of the services sheet.
type ServiceItem struct {
	Unit        string  `json:"unidade"`
	Client      string  `json:"cliente"`
	Description string  `json:"descricao"`
	Revenue     float64 `json:"faturamento"`
	Cost        float64 `json:"custo"`
	Profit      float64 `json:"lucro"`
	Notes       string  `json:"observacoes"`
}
