package repository

import (
	"testing"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"/data/informes/ANCI_final_1.json", "ANCI_final_1.json"},
		{`C:\informes\ANCI_preliminar_2.json`, "ANCI_preliminar_2.json"},
		{"ANCI_completo_3.json", "ANCI_completo_3.json"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, baseName(tt.path))
		})
	}
}

func TestReportRepository_FindByFileName(t *testing.T) {
	db := testutil.SetupDB(t)
	repo := NewReportRepository()
	now := time.Now()

	for _, r := range []models.AnciReport{
		{IncidenteID: 1, TipoReporte: models.TipoReporteFinal, Version: 1, FechaGeneracion: now, RutaArchivo: `C:\informes\ANCI_final_a.json`},
		{IncidenteID: 1, TipoReporte: models.TipoReporteFinal, Version: 2, FechaGeneracion: now, RutaArchivo: "/srv/informes/ANCI_final_b.json"},
		{IncidenteID: 2, TipoReporte: models.TipoReporteFinal, Version: 1, FechaGeneracion: now, RutaArchivo: "/srv/informes/ANCI_final_c.json"},
	} {
		r := r
		require.NoError(t, db.Create(&r).Error)
	}

	got, err := repo.FindByFileName(nil, 1, "ANCI_final_a.json")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)

	got, err = repo.FindByFileName(nil, 1, "ANCI_final_b.json")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)

	_, err = repo.FindByFileName(nil, 1, "ANCI_final_c.json")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	last, err := repo.MaxVersion(nil, 1, models.TipoReporteFinal)
	require.NoError(t, err)
	assert.Equal(t, 2, last)
}
