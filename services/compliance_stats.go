package services

import (
	"math"
	"sort"
	"time"

	"agentedigitalapi/models"
)

// Obligation counts used as the denominator of the compliance percentage.
const (
	baseObligacionesPSE = 14
	baseObligacionesOIV = 21
	tendencyWindow      = 30 * 24 * time.Hour
)

// ComplianceCounts holds per-state counts of compliance records.
type ComplianceCounts struct {
	Total         int `json:"total_obligaciones"`
	Implementadas int `json:"implementadas"`
	EnProceso     int `json:"en_proceso"`
	Pendientes    int `json:"pendientes"`
	Vencidas      int `json:"vencidas"`
	NoAplica      int `json:"no_aplica"`
}

// IncidentCounts summarizes the incidents of a company.
type IncidentCounts struct {
	Total           int             `json:"total"`
	Activos         int             `json:"activos"`
	Cerrados        int             `json:"cerrados"`
	Pendientes      int             `json:"pendientes"`
	CriticidadAlta  int             `json:"criticidad_alta"`
	CriticidadMedia int             `json:"criticidad_media"`
	CriticidadBaja  int             `json:"criticidad_baja"`
	TiposFrecuentes []TipoFrecuente `json:"tipos_frecuentes"`
}

// TipoFrecuente is one entry of the most frequent incident flows.
type TipoFrecuente struct {
	Tipo     string `json:"tipo"`
	Cantidad int    `json:"cantidad"`
}

// UpcomingDeadline is a pending obligation with a due date.
type UpcomingDeadline struct {
	ArticuloNorma string `json:"ArticuloNorma"`
	FechaTermino  string `json:"FechaTermino"`
	DiasRestantes int    `json:"DiasRestantes"`
}

// DashboardStats is the response of the company dashboard.
type DashboardStats struct {
	EmpresaID              uint   `json:"empresa_id"`
	TipoEmpresa            string `json:"tipo_empresa"`
	PorcentajeCumplimiento int    `json:"porcentaje_cumplimiento"`
	ComplianceCounts
	TotalEvidencias int                `json:"total_evidencias"`
	RiesgoNivel     string             `json:"riesgo_nivel"`
	Tendencia       string             `json:"tendencia_cumplimiento"`
	Incidentes      IncidentCounts     `json:"incidentes"`
	ProximasFechas  []UpcomingDeadline `json:"proximas_fechas"`
	Timestamp       string             `json:"timestamp"`
}

// BaseObligations returns the number of obligations a company type must meet.
func BaseObligations(tipoEmpresa string) int {
	if tipoEmpresa == models.TipoEmpresaOIV {
		return baseObligacionesOIV
	}
	return baseObligacionesPSE
}

// CountCompliance counts records by state against base. Without records every
// obligation is pending. When the active states exceed base they are scaled
// down with truncation and the remainder is added to Pendientes.
func CountCompliance(records []models.ComplianceRecord, base int) ComplianceCounts {
	c := ComplianceCounts{Total: base}
	for _, r := range records {
		switch r.Estado {
		case models.EstadoImplementado:
			c.Implementadas++
		case models.EstadoEnProceso:
			c.EnProceso++
		case models.EstadoPendiente:
			c.Pendientes++
		case models.EstadoVencido:
			c.Vencidas++
		case models.EstadoNoAplica:
			c.NoAplica++
		}
	}

	if c.Implementadas+c.EnProceso+c.Pendientes+c.Vencidas+c.NoAplica == 0 {
		c.Pendientes = base
		return c
	}

	active := c.Implementadas + c.EnProceso + c.Pendientes + c.Vencidas
	if active > base {
		factor := float64(base) / float64(active)
		c.Implementadas = int(float64(c.Implementadas) * factor)
		c.EnProceso = int(float64(c.EnProceso) * factor)
		c.Pendientes = int(float64(c.Pendientes) * factor)
		c.Vencidas = int(float64(c.Vencidas) * factor)
		if diff := base - (c.Implementadas + c.EnProceso + c.Pendientes + c.Vencidas); diff > 0 {
			c.Pendientes += diff
		}
	}
	return c
}

// Percentage returns round(part/total*100), 0 when total is 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// RiskLevel classifies a company from its compliance percentage and incident criticality.
func RiskLevel(porcentaje int, inc IncidentCounts) string {
	if porcentaje < 50 || inc.CriticidadAlta > 0 {
		return "alto"
	}
	if porcentaje < 80 || inc.CriticidadMedia > 0 {
		return "medio"
	}
	return "bajo"
}

// Tendency compares the current percentage with the one computed from records
// implemented before the 30 day window.
func Tendency(records []models.ComplianceRecord, porcentaje, base int, now time.Time) string {
	cutoff := now.Add(-tendencyWindow)
	past := 0
	for _, r := range records {
		if r.Estado == models.EstadoImplementado && r.FechaModificacion != nil && r.FechaModificacion.Before(cutoff) {
			past++
		}
	}
	pastPct := Percentage(past, base)
	switch {
	case porcentaje > pastPct:
		return "mejora"
	case porcentaje < pastPct:
		return "deterioro"
	default:
		return "estable"
	}
}

// CountIncidents builds the incident block of the dashboard.
func CountIncidents(incidents []models.Incident) IncidentCounts {
	c := IncidentCounts{Total: len(incidents)}
	tipos := map[string]int{}
	for _, i := range incidents {
		switch i.EstadoActual {
		case models.EstadoAbierto:
			c.Activos++
		case models.EstadoCerrado:
			c.Cerrados++
		case models.EstadoPendiente:
			c.Pendientes++
		}
		switch i.Criticidad {
		case models.CriticidadAlta:
			c.CriticidadAlta++
		case models.CriticidadMedia:
			c.CriticidadMedia++
		case models.CriticidadBaja:
			c.CriticidadBaja++
		}
		tipo := i.TipoFlujo
		if tipo == "" {
			tipo = "No especificado"
		}
		tipos[tipo]++
	}

	c.TiposFrecuentes = make([]TipoFrecuente, 0, len(tipos))
	for tipo, n := range tipos {
		c.TiposFrecuentes = append(c.TiposFrecuentes, TipoFrecuente{Tipo: tipo, Cantidad: n})
	}
	sort.Slice(c.TiposFrecuentes, func(a, b int) bool {
		if c.TiposFrecuentes[a].Cantidad != c.TiposFrecuentes[b].Cantidad {
			return c.TiposFrecuentes[a].Cantidad > c.TiposFrecuentes[b].Cantidad
		}
		return c.TiposFrecuentes[a].Tipo < c.TiposFrecuentes[b].Tipo
	})
	if len(c.TiposFrecuentes) > 3 {
		c.TiposFrecuentes = c.TiposFrecuentes[:3]
	}
	return c
}

// DaysUntil returns whole days between now and due, both truncated to midnight.
func DaysUntil(due, now time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(n).Hours() / 24)
}

// EvidenceValidity classifies an evidence expiry date.
func EvidenceValidity(fechaVigencia *time.Time, now time.Time) string {
	if fechaVigencia == nil {
		return "sin_vigencia"
	}
	if fechaVigencia.Before(now) {
		return "vencido"
	}
	if fechaVigencia.Sub(now) <= tendencyWindow {
		return "por_vencer"
	}
	return "vigente"
}
