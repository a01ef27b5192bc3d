package deadline

import (
	"context"
	"testing"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/pkg/events"
	"agentedigitalapi/repository"
	"agentedigitalapi/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	detected := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("within first day", func(t *testing.T) {
		got := Compute(detected, nil, detected.Add(10*time.Hour))
		require.Len(t, got, 3)
		assert.Equal(t, models.TipoReportePreliminar, got[0].Tipo)
		assert.False(t, got[0].Vencido)
		assert.Equal(t, 14, got[0].HorasRestantes)
		assert.Equal(t, 62, got[1].HorasRestantes)
		assert.Equal(t, detected.Add(30*24*time.Hour), got[2].Limite)
	})

	t.Run("preliminar overdue without report", func(t *testing.T) {
		got := Compute(detected, nil, detected.Add(25*time.Hour))
		assert.True(t, got[0].Vencido)
		assert.Equal(t, 0, got[0].HorasRestantes)
		assert.False(t, got[1].Vencido)
	})

	t.Run("reported type is never overdue", func(t *testing.T) {
		got := Compute(detected, map[string]bool{models.TipoReportePreliminar: true}, detected.Add(100*time.Hour))
		assert.True(t, got[0].Informado)
		assert.False(t, got[0].Vencido)
		assert.True(t, got[1].Vencido)
	})
}

func newTestMonitor(n int) *Monitor {
	m := &Monitor{incidents: make(map[uint]*TrackedIncident), notified: map[string]bool{}}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		m.incidents[uint(i)] = &TrackedIncident{
			IncidenteID:    uint(i),
			EmpresaID:      uint(i%2 + 1),
			FechaDeteccion: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return m
}

func TestPaginated_Empty(t *testing.T) {
	result := newTestMonitor(0).Paginated(0, 1, 10)

	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Incidentes)
	assert.NotNil(t, result.Incidentes)
	assert.Equal(t, 0, result.TotalPages)
}

func TestPaginated_OrderAndPages(t *testing.T) {
	m := newTestMonitor(25)

	first := m.Paginated(0, 1, 10)
	assert.Equal(t, 25, first.Total)
	assert.Equal(t, 3, first.TotalPages)
	require.Len(t, first.Incidentes, 10)
	assert.Equal(t, uint(1), first.Incidentes[0].IncidenteID)

	last := m.Paginated(0, 3, 10)
	require.Len(t, last.Incidentes, 5)
	assert.Equal(t, uint(25), last.Incidentes[4].IncidenteID)

	beyond := m.Paginated(0, 4, 10)
	assert.Empty(t, beyond.Incidentes)
	assert.Equal(t, 4, beyond.Page)
}

func TestPaginated_InvalidParametersAndCompanyFilter(t *testing.T) {
	m := newTestMonitor(6)

	result := m.Paginated(0, 0, 0)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Len(t, result.Incidentes, 6)

	filtered := m.Paginated(2, 1, 10)
	assert.Equal(t, 3, filtered.Total)
	for _, inc := range filtered.Incidentes {
		assert.Equal(t, uint(2), inc.EmpresaID)
	}
}

func TestStop_Idempotent(t *testing.T) {
	m := NewMonitor(nil, nil, time.Minute)
	m.Stop()
	m.Stop()
	assert.True(t, m.stopped)
}

func TestRefresh_PublishesOverdueOnce(t *testing.T) {
	db := testutil.SetupDB(t)
	pub := events.NewRecorder("")
	prev := events.Default()
	events.SetDefault(pub)
	t.Cleanup(func() { events.SetDefault(prev) })

	company := testutil.CreateCompany(t, db, 0, "Eléctrica Sur", models.TipoEmpresaOIV)
	incident := testutil.CreateIncident(t, db, company.EmpresaID, "Ransomware")
	detected := time.Now().Add(-48 * time.Hour)
	reportID := uint(99)
	require.NoError(t, db.Model(&models.Incident{}).Where("IncidenteID = ?", incident.IncidenteID).
		Updates(map[string]interface{}{"FechaDeteccion": detected, "ReporteAnciID": reportID}).Error)
	testutil.CreateIncident(t, db, company.EmpresaID, "Not declared")

	m := NewMonitor(repository.NewIncidentRepository(), repository.NewReportRepository(), time.Minute)
	require.NoError(t, m.Refresh(context.Background()))
	require.NoError(t, m.Refresh(context.Background()))

	tracked, ok := m.Get(incident.IncidenteID)
	require.True(t, ok)
	assert.True(t, tracked.Plazos[0].Vencido)
	assert.False(t, tracked.Plazos[1].Vencido)
	assert.Equal(t, 1, m.Paginated(0, 1, 10).Total)

	var overdue int
	for _, e := range pub.Events() {
		if e.Subject == events.SubjectDeadlineOverdue {
			overdue++
		}
	}
	assert.Equal(t, 1, overdue)
}

func TestRefresh_PrunesNotifiedDeadlines(t *testing.T) {
	db := testutil.SetupDB(t)
	pub := events.NewRecorder("")
	prev := events.Default()
	events.SetDefault(pub)
	t.Cleanup(func() { events.SetDefault(prev) })

	company := testutil.CreateCompany(t, db, 0, "Eléctrica Sur", models.TipoEmpresaOIV)
	reported := testutil.CreateIncident(t, db, company.EmpresaID, "Ransomware")
	closing := testutil.CreateIncident(t, db, company.EmpresaID, "DDoS")
	detected := time.Now().Add(-48 * time.Hour)
	for _, id := range []uint{reported.IncidenteID, closing.IncidenteID} {
		require.NoError(t, db.Model(&models.Incident{}).Where("IncidenteID = ?", id).
			Updates(map[string]interface{}{"FechaDeteccion": detected, "ReporteAnciID": uint(99)}).Error)
	}

	m := NewMonitor(repository.NewIncidentRepository(), repository.NewReportRepository(), time.Minute)
	require.NoError(t, m.Refresh(context.Background()))
	assert.Len(t, m.notified, 2)

	require.NoError(t, db.Create(&models.AnciReport{
		IncidenteID: reported.IncidenteID, TipoReporte: models.TipoReportePreliminar, Version: 1, FechaGeneracion: time.Now(),
	}).Error)
	require.NoError(t, db.Model(&models.Incident{}).Where("IncidenteID = ?", closing.IncidenteID).
		Update("EstadoActual", models.EstadoCerrado).Error)

	require.NoError(t, m.Refresh(context.Background()))
	assert.Empty(t, m.notified)

	_, ok := m.Get(closing.IncidenteID)
	assert.True(t, ok)

	var overdue int
	for _, e := range pub.Events() {
		if e.Subject == events.SubjectDeadlineOverdue {
			overdue++
		}
	}
	assert.Equal(t, 2, overdue)
}
