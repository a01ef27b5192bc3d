// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"agentedigitalapi/config"
	"agentedigitalapi/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupDB opens a migrated SQLite database in a temp dir and installs it as
// config.DB for the duration of the test.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupDirs points every storage directory of config.Cfg at a fresh temp dir.
func SetupDirs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	prev := config.Cfg
	config.Cfg.UploadDir = filepath.Join(root, "uploads")
	config.Cfg.SnapshotDir = filepath.Join(root, "fotografias")
	config.Cfg.ReportDir = filepath.Join(root, "informes")
	config.Cfg.TempDir = filepath.Join(root, "temp")
	config.Cfg.MaxUploadMB = 16
	config.Cfg.AllowedExtensions = []string{"pdf", "txt", "png", "docx"}
	t.Cleanup(func() { config.Cfg = prev })
	return root
}

// CreateTenant inserts an active tenant.
func CreateTenant(t *testing.T, db *gorm.DB, name string) models.Tenant {
	t.Helper()
	tenant := models.Tenant{RazonSocial: name, RUT: "76.000.000-0", EstadoActivo: true, FechaCreacion: time.Now()}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

// CreateCompany inserts a company of the given type under tenantID (0 for none).
func CreateCompany(t *testing.T, db *gorm.DB, tenantID uint, name, tipo string) models.Company {
	t.Helper()
	company := models.Company{RazonSocial: name, RUT: "76.123.456-7", TipoEmpresa: tipo, FechaCreacion: time.Now()}
	if tenantID > 0 {
		company.InquilinoID = &tenantID
	}
	require.NoError(t, db.Create(&company).Error)
	return company
}

// CreateIncident inserts an open incident for companyID.
func CreateIncident(t *testing.T, db *gorm.DB, companyID uint, titulo string) models.Incident {
	t.Helper()
	now := time.Now()
	incident := models.Incident{
		EmpresaID:      companyID,
		Titulo:         titulo,
		EstadoActual:   models.EstadoAbierto,
		Criticidad:     models.CriticidadMedia,
		FechaDeteccion: &now,
		FechaCreacion:  now,
	}
	require.NoError(t, db.Create(&incident).Error)
	return incident
}

// CreateObligations inserts n obligations numbered from start for aplicaPara.
func CreateObligations(t *testing.T, db *gorm.DB, start, n int, aplicaPara string) []models.Obligation {
	t.Helper()
	out := make([]models.Obligation, 0, n)
	for i := 0; i < n; i++ {
		o := models.Obligation{
			ObligacionID:  uint(start + i),
			ArticuloNorma: fmt.Sprintf("Art. %02d", start+i),
			Descripcion:   fmt.Sprintf("Obligación %d", start+i),
			AplicaPara:    aplicaPara,
		}
		require.NoError(t, db.Create(&o).Error)
		out = append(out, o)
	}
	return out
}
