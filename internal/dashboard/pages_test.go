package dashboard

import (
	"context"
	"testing"

	"painel/internal/aggregate"
	"painel/internal/core"
	"painel/internal/sheets/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kpiValue(t *testing.T, v View, key string) float64 {
	t.Helper()
	k, ok := v.KPI(key)
	require.True(t, ok, "missing KPI %s", key)
	return k.Value
}

func TestContractsKPIs(t *testing.T) {
	// fixedNow is 2024-03-15; the 90 day window ends 2024-06-13.
	src := memory.New("Serviço ou Produto,Unidade,Fornecedor ou Cliente,Custo,Data Final\n" +
		"A,Sede,Acme,100,13/06/2024\n" +
		"B,Filial,Beta,50,14/06/2024\n" +
		"C,Sede,Acme,25,2024-01-01\n" +
		",Sede,Acme,999,01/01/2024\n")
	s := newSession(contractsDefinition(), src, testOptions())
	st, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Dropped)

	v := s.View(nil)
	assert.Equal(t, 175.0, kpiValue(t, v, "custo_total"))
	assert.Equal(t, 3.0, kpiValue(t, v, "num_contratos"))
	assert.Equal(t, 1.0, kpiValue(t, v, "vencendo"), "only the date on the window edge counts; C has a non strict date")
	assert.InDelta(t, 58.333, kpiValue(t, v, "media_custo"), 0.001)
	assert.Equal(t, 50.0, kpiValue(t, v, "mediana_custo"))

	byUnit, ok := v.Chart("custo_por_unidade")
	require.True(t, ok)
	assert.Equal(t, aggregate.Series{{Label: "Sede", Value: 125}, {Label: "Filial", Value: 50}}, byUnit.Datasets[0].Series)
}

func TestContractsThresholdOverride(t *testing.T) {
	src := memory.New("Serviço ou Produto,Data Final\nA,14/06/2024\n")
	opts := testOptions()
	opts.Thresholds = Thresholds{ContractExpiryDays: 120}
	s := newSession(contractsDefinition(), src, opts)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	v := s.View(nil)
	assert.Equal(t, 1.0, kpiValue(t, v, "vencendo"))
	k, _ := v.KPI("vencendo")
	assert.Equal(t, "Vencendo em 120 dias", k.Label)
}

func TestEquipmentDefaultsAndKPIs(t *testing.T) {
	src := memory.New("Tag do Equipamento,ID do Ativo,Nome do Equipamento,Localização,Status,Data Manutenção,Observações\n" +
		"EQ-1,100,Bomba,Casa de Máquinas,Em Reparo,2023-09-14,\n" +
		"EQ-2,101,Compressor,,,15/09/2023,troca de óleo\n" +
		",,Gerador,Subsolo,Necessita Reparo,2024-02-01,\n" +
		",102,,Subsolo,Ativo,2020-01-01,\n")
	s := newSession(equipmentDefinition(), src, testOptions())
	st, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Records)
	assert.Equal(t, 1, st.Dropped)

	records := s.Records()
	assert.Equal(t, "Não Alocada", records[1].Location)
	assert.Equal(t, "Não Definido", records[1].Status)
	assert.Equal(t, core.NewDate(2023, 9, 15), records[1].MaintenanceDate)

	v := s.View(nil)
	assert.Equal(t, 3.0, kpiValue(t, v, "total_ativos"))
	assert.Equal(t, 2.0, kpiValue(t, v, "necessita_reparo"))
	assert.Equal(t, 1.0, kpiValue(t, v, "atraso_manutencao"), "2023-09-14 is before 2023-09-15; the limit itself is not overdue")

	status, _ := v.Chart("status")
	assert.Equal(t, []string{"Em Reparo", "Não Definido", "Necessita Reparo"}, status.Datasets[0].Series.Labels())

	filtered := s.View(aggregate.Criteria{"localizacao": "Subsolo"})
	assert.Equal(t, 1.0, kpiValue(t, filtered, "total_ativos"))
}

func TestBillingKPIs(t *testing.T) {
	src := memory.New("Fornecedor,Unidade,Descrição do Serviço,# Valor Anterior,# Valor Atual,Economia,Data de Instalação\n" +
		"Acme,Sede,Internet,\"R$ 1.000,00\",\"R$ 800,00\",\"R$ 200,00\",2024-03-01\n" +
		"Beta,Filial,Telefonia,500,450,50,01/01/2024\n" +
		"Gama,Sede,Energia,300,300,0,2024-05-01\n" +
		"Delta,Filial,Água,100,90,10,sem data\n" +
		",Sede,linha vazia,1,1,1,\n")
	s := newSession(billingDefinition(), src, testOptions())
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	v := s.View(nil)
	assert.Equal(t, 1900.0, kpiValue(t, v, "valor_anterior"))
	assert.Equal(t, 1640.0, kpiValue(t, v, "valor_atual"))
	assert.Equal(t, 260.0, kpiValue(t, v, "economia"))
	// Acme: 800 x 1 month, Beta: 450 x 3 months, Gama is in the future, Delta has no date.
	assert.Equal(t, 800.0+1350.0, kpiValue(t, v, "faturamento_total"))

	units, ok := v.Chart("valores_por_unidade")
	require.True(t, ok)
	require.Len(t, units.Datasets, 2)
	assert.Equal(t, units.Datasets[0].Series.Labels(), units.Datasets[1].Series.Labels())
	assert.Equal(t, aggregate.Series{{Label: "Sede", Value: 1100}, {Label: "Filial", Value: 540}}, units.Datasets[1].Series)
}

func TestServicesKPIs(t *testing.T) {
	src := memory.New("Unidade,Cliente,Descricao,# Valor do Servico,# Custo,Lucro,Observacoes\n" +
		"Sede,Acme,Limpeza,\"1.000,00\",\"750,00\",\"250,00\",\n" +
		",Beta,Portaria,500,400,100,\n" +
		"Filial,,Jardinagem,0,0,0,\n" +
		",,,,,,\n")
	s := newSession(servicesDefinition(), src, testOptions())
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	v := s.View(nil)
	assert.Equal(t, 1500.0, kpiValue(t, v, "faturamento"))
	assert.Equal(t, 350.0, kpiValue(t, v, "lucro"))
	assert.Equal(t, 3.0, kpiValue(t, v, "itens"))
	margin, _ := v.KPI("margem")
	assert.InDelta(t, 23.333, margin.Value, 0.001)
	assert.Equal(t, "23,33%", margin.Text)

	byClient, _ := v.Chart("lucro_por_cliente")
	assert.Equal(t, []string{"Acme", "Beta"}, byClient.Datasets[0].Series.Labels())
}

func TestServicesRevenueSynonym(t *testing.T) {
	src := memory.New("unidade,FATURAMENTO\nSede,10\n")
	s := newSession(servicesDefinition(), src, testOptions())
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, kpiValue(t, s.View(nil), "faturamento"))
	assert.Equal(t, 0.0, kpiValue(t, s.View(nil), "margem"))
}
