package services

import (
	"testing"
	"time"

	"agentedigitalapi/models"

	"github.com/stretchr/testify/assert"
)

func complianceRecords(estados ...string) []models.ComplianceRecord {
	out := make([]models.ComplianceRecord, 0, len(estados))
	for _, e := range estados {
		out = append(out, models.ComplianceRecord{Estado: e})
	}
	return out
}

func repeatEstado(estado string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = estado
	}
	return out
}

func TestBaseObligations(t *testing.T) {
	tests := []struct {
		tipo string
		want int
	}{
		{models.TipoEmpresaOIV, 21},
		{models.TipoEmpresaPSE, 14},
		{models.TipoEmpresaAmbas, 14},
		{"", 14},
	}
	for _, tt := range tests {
		t.Run(tt.tipo, func(t *testing.T) {
			if got := BaseObligations(tt.tipo); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCountCompliance(t *testing.T) {
	tests := []struct {
		name    string
		records []models.ComplianceRecord
		base    int
		want    ComplianceCounts
	}{
		{
			name: "no records means everything pending",
			base: 14,
			want: ComplianceCounts{Total: 14, Pendientes: 14},
		},
		{
			name:    "under base is reported as is",
			records: complianceRecords(models.EstadoImplementado, models.EstadoImplementado, models.EstadoEnProceso, models.EstadoVencido),
			base:    14,
			want:    ComplianceCounts{Total: 14, Implementadas: 2, EnProceso: 1, Vencidas: 1},
		},
		{
			name:    "over base is scaled and remainder goes to pending",
			records: complianceRecords(append(repeatEstado(models.EstadoImplementado, 14), repeatEstado(models.EstadoEnProceso, 14)...)...),
			base:    14,
			// factor 0.5: 7 + 7 = 14, no remainder
			want: ComplianceCounts{Total: 14, Implementadas: 7, EnProceso: 7},
		},
		{
			name:    "truncation remainder",
			records: complianceRecords(append(repeatEstado(models.EstadoImplementado, 9), repeatEstado(models.EstadoVencido, 6)...)...),
			base:    14,
			// factor 14/15: 8.4 -> 8, 5.6 -> 5, remainder 1
			want: ComplianceCounts{Total: 14, Implementadas: 8, Vencidas: 5, Pendientes: 1},
		},
		{
			name:    "no aplica is not scaled",
			records: complianceRecords(append(repeatEstado(models.EstadoImplementado, 28), repeatEstado(models.EstadoNoAplica, 3)...)...),
			base:    14,
			want:    ComplianceCounts{Total: 14, Implementadas: 14, NoAplica: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountCompliance(tt.records, tt.base))
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(5, 0))
	assert.Equal(t, 50, Percentage(7, 14))
	assert.Equal(t, 14, Percentage(3, 21))
	assert.Equal(t, 100, Percentage(21, 21))
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		name       string
		porcentaje int
		inc        IncidentCounts
		want       string
	}{
		{"low compliance", 40, IncidentCounts{}, "alto"},
		{"high criticality incident", 95, IncidentCounts{CriticidadAlta: 1}, "alto"},
		{"medium compliance", 60, IncidentCounts{}, "medio"},
		{"medium criticality incident", 90, IncidentCounts{CriticidadMedia: 2}, "medio"},
		{"healthy", 85, IncidentCounts{CriticidadBaja: 4}, "bajo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RiskLevel(tt.porcentaje, tt.inc); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTendency(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -45)
	recent := now.AddDate(0, 0, -2)

	recs := []models.ComplianceRecord{
		{Estado: models.EstadoImplementado, FechaModificacion: &old},
		{Estado: models.EstadoImplementado, FechaModificacion: &recent},
		{Estado: models.EstadoImplementado},
	}
	// one record counts as past: round(1/14*100) = 7
	assert.Equal(t, "mejora", Tendency(recs, 21, 14, now))
	assert.Equal(t, "estable", Tendency(recs, 7, 14, now))
	assert.Equal(t, "deterioro", Tendency(recs, 0, 14, now))
	assert.Equal(t, "estable", Tendency(nil, 0, 14, now))
}

func TestCountIncidents(t *testing.T) {
	incidents := []models.Incident{
		{EstadoActual: models.EstadoAbierto, Criticidad: models.CriticidadAlta, TipoFlujo: "ANCI"},
		{EstadoActual: models.EstadoAbierto, Criticidad: models.CriticidadMedia, TipoFlujo: "ANCI"},
		{EstadoActual: models.EstadoCerrado, Criticidad: models.CriticidadBaja, TipoFlujo: "Interno"},
		{EstadoActual: models.EstadoPendiente, Criticidad: models.CriticidadBaja},
		{EstadoActual: models.EstadoCerrado, TipoFlujo: "Interno"},
		{EstadoActual: models.EstadoCerrado, TipoFlujo: "Externo"},
		{EstadoActual: models.EstadoCerrado, TipoFlujo: "ANCI"},
	}

	got := CountIncidents(incidents)
	assert.Equal(t, 7, got.Total)
	assert.Equal(t, 2, got.Activos)
	assert.Equal(t, 4, got.Cerrados)
	assert.Equal(t, 1, got.Pendientes)
	assert.Equal(t, 1, got.CriticidadAlta)
	assert.Equal(t, 1, got.CriticidadMedia)
	assert.Equal(t, 2, got.CriticidadBaja)
	assert.Equal(t, []TipoFrecuente{
		{Tipo: "ANCI", Cantidad: 3},
		{Tipo: "Interno", Cantidad: 2},
		{Tipo: "Externo", Cantidad: 1},
	}, got.TiposFrecuentes)
}

func TestCountIncidents_Empty(t *testing.T) {
	got := CountIncidents(nil)
	assert.Equal(t, 0, got.Total)
	assert.NotNil(t, got.TiposFrecuentes)
	assert.Empty(t, got.TiposFrecuentes)
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysUntil(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 10, DaysUntil(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, -1, DaysUntil(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), now))
}

func TestEvidenceValidity(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	soon := now.AddDate(0, 0, 10)
	later := now.AddDate(0, 3, 0)

	tests := []struct {
		name  string
		fecha *time.Time
		want  string
	}{
		{"unset", nil, "sin_vigencia"},
		{"expired", &past, "vencido"},
		{"within 30 days", &soon, "por_vencer"},
		{"valid", &later, "vigente"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvidenceValidity(tt.fecha, now); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
