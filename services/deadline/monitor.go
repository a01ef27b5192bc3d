package deadline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/pkg/events"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"
)

// Windows counted from the detection date for each ANCI report type.
var Windows = []struct {
	Tipo   string
	Offset time.Duration
}{
	{models.TipoReportePreliminar, 24 * time.Hour},
	{models.TipoReporteCompleto, 72 * time.Hour},
	{models.TipoReporteFinal, 30 * 24 * time.Hour},
}

// Deadline is the countdown of one report type.
type Deadline struct {
	Tipo           string    `json:"tipo"`
	Limite         time.Time `json:"limite"`
	Informado      bool      `json:"informado"`
	Vencido        bool      `json:"vencido"`
	HorasRestantes int       `json:"horasRestantes"`
}

// TrackedIncident is an ANCI incident with its report deadlines.
type TrackedIncident struct {
	IncidenteID    uint       `json:"incidente_id"`
	EmpresaID      uint       `json:"empresa_id"`
	IDVisible      string     `json:"id_visible"`
	Titulo         string     `json:"titulo"`
	Criticidad     string     `json:"criticidad"`
	FechaDeteccion time.Time  `json:"fecha_deteccion"`
	Plazos         []Deadline `json:"plazos"`
}

// PaginatedDeadlines contains one page of tracked incidents.
type PaginatedDeadlines struct {
	Incidentes []TrackedIncident `json:"incidentes"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Compute returns the deadlines of an incident detected at detected. reported
// holds the report types already generated.
func Compute(detected time.Time, reported map[string]bool, now time.Time) []Deadline {
	out := make([]Deadline, 0, len(Windows))
	for _, w := range Windows {
		limite := detected.Add(w.Offset)
		d := Deadline{Tipo: w.Tipo, Limite: limite, Informado: reported[w.Tipo]}
		d.Vencido = now.After(limite) && !d.Informado
		if remaining := limite.Sub(now); remaining > 0 {
			d.HorasRestantes = int(remaining.Hours())
		}
		out = append(out, d)
	}
	return out
}

// Monitor keeps the deadlines of ANCI incidents in memory and refreshes them
// in the background.
type Monitor struct {
	incidents map[uint]*TrackedIncident
	notified  map[string]bool
	mu        sync.RWMutex
	stopCh    chan struct{}
	stopped   bool
	interval  time.Duration
	now       func() time.Time

	incidentRepo repository.IncidentRepository
	reportRepo   repository.ReportRepository
}

var (
	monitorInstance *Monitor
	monitorOnce     sync.Once
)

// GetMonitor returns the process-wide monitor, starting it on first use.
func GetMonitor() *Monitor {
	monitorOnce.Do(func() {
		monitorInstance = NewMonitor(repository.NewIncidentRepository(), repository.NewReportRepository(),
			config.Cfg.DeadlineCheckInterval)
		go monitorInstance.run()
	})
	return monitorInstance
}

// NewMonitor builds a monitor that is not yet running.
func NewMonitor(incidentRepo repository.IncidentRepository, reportRepo repository.ReportRepository, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Monitor{
		incidents:    make(map[uint]*TrackedIncident),
		notified:     make(map[string]bool),
		stopCh:       make(chan struct{}),
		interval:     interval,
		now:          time.Now,
		incidentRepo: incidentRepo,
		reportRepo:   reportRepo,
	}
}

// Refresh reloads the ANCI incidents and their reports. A deadline seen
// overdue for the first time is logged and published once. Closed incidents
// are tracked but never notified.
func (m *Monitor) Refresh(ctx context.Context) error {
	incidents, err := m.incidentRepo.GetAnciIncidents(nil, 0)
	if err != nil {
		return fmt.Errorf("failed to load ANCI incidents: %w", err)
	}
	ids := make([]uint, 0, len(incidents))
	for _, i := range incidents {
		ids = append(ids, i.IncidenteID)
	}
	reports, err := m.reportRepo.GetByIncidents(nil, ids)
	if err != nil {
		return fmt.Errorf("failed to load ANCI reports: %w", err)
	}
	reported := make(map[uint]map[string]bool, len(ids))
	for _, r := range reports {
		if reported[r.IncidenteID] == nil {
			reported[r.IncidenteID] = map[string]bool{}
		}
		reported[r.IncidenteID][r.TipoReporte] = true
	}

	now := m.now()
	tracked := make(map[uint]*TrackedIncident, len(incidents))
	closed := make(map[uint]bool)
	for _, i := range incidents {
		if i.EstadoActual == models.EstadoCerrado {
			closed[i.IncidenteID] = true
		}
		detected := i.FechaCreacion
		if i.FechaDeteccion != nil {
			detected = *i.FechaDeteccion
		}
		tracked[i.IncidenteID] = &TrackedIncident{
			IncidenteID:    i.IncidenteID,
			EmpresaID:      i.EmpresaID,
			IDVisible:      i.IDVisible,
			Titulo:         i.Titulo,
			Criticidad:     i.Criticidad,
			FechaDeteccion: detected,
			Plazos:         Compute(detected, reported[i.IncidenteID], now),
		}
	}

	var overdue []TrackedIncident
	var overdueTipos []string
	m.mu.Lock()
	m.incidents = tracked
	// Only deadlines that are overdue right now keep their entry, so closed,
	// reported or deleted incidents drop out of notified.
	notified := make(map[string]bool, len(m.notified))
	for _, t := range tracked {
		if closed[t.IncidenteID] {
			continue
		}
		for _, d := range t.Plazos {
			if !d.Vencido {
				continue
			}
			key := fmt.Sprintf("%d:%s", t.IncidenteID, d.Tipo)
			if !m.notified[key] {
				overdue = append(overdue, *t)
				overdueTipos = append(overdueTipos, d.Tipo)
			}
			notified[key] = true
		}
	}
	m.notified = notified
	m.mu.Unlock()

	for i, t := range overdue {
		logger.Warnf("ANCI deadline overdue: incident %d (%s) report %s", t.IncidenteID, t.IDVisible, overdueTipos[i])
		events.Emit(ctx, events.SubjectDeadlineOverdue, map[string]interface{}{
			"incidente_id": t.IncidenteID,
			"empresa_id":   t.EmpresaID,
			"tipo":         overdueTipos[i],
		})
	}
	logger.Debugf("Deadline monitor tracking %d ANCI incidents", len(tracked))
	return nil
}

// Get returns a copy of one tracked incident.
func (m *Monitor) Get(incidentID uint) (*TrackedIncident, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.incidents[incidentID]
	if !ok {
		return nil, false
	}
	c := *t
	return &c, true
}

// Paginated returns a page of tracked incidents ordered by detection date.
// A zero empresaID includes every company. Out of range pages are empty.
func (m *Monitor) Paginated(empresaID uint, page, pageSize int) *PaginatedDeadlines {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	all := make([]TrackedIncident, 0, len(m.incidents))
	for _, t := range m.incidents {
		if empresaID == 0 || t.EmpresaID == empresaID {
			all = append(all, *t)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].FechaDeteccion.Equal(all[j].FechaDeteccion) {
			return all[i].IncidenteID < all[j].IncidenteID
		}
		return all[i].FechaDeteccion.Before(all[j].FechaDeteccion)
	})

	total := len(all)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize

	result := &PaginatedDeadlines{
		Incidentes: []TrackedIncident{},
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
	if start >= total {
		return result
	}
	if end > total {
		end = total
	}
	result.Incidentes = all[start:end]
	return result
}

// Stop ends the background loop. Calling it twice is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stopped {
		close(m.stopCh)
		m.stopped = true
		logger.Infof("Deadline monitor stopped")
	}
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logger.Infof("Deadline monitor started (interval %s)", m.interval)
	if err := m.Refresh(context.Background()); err != nil {
		logger.Errorf("Deadline refresh failed: %v", err)
	}

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			if err := m.Refresh(context.Background()); err != nil {
				logger.Errorf("Deadline refresh failed: %v", err)
			}
		}
	}
}
