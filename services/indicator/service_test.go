package indicator

import (
	"context"
	"testing"
	"time"

	"agentedigitalapi/models"
	"agentedigitalapi/testutil"
	"agentedigitalapi/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ExecuteSubstitutesVariables(t *testing.T) {
	ctx := context.Background()
	s := NewSession()
	require.NoError(t, s.Load(ctx, []ComplianceRow{
		{ID: 1, EmpresaID: 7, ObligacionID: 1, Estado: models.EstadoImplementado, Porcentaje: 100, AplicaPara: "PSE"},
		{ID: 2, EmpresaID: 7, ObligacionID: 2, Estado: models.EstadoPendiente, Porcentaje: 0, AplicaPara: "PSE"},
		{ID: 3, EmpresaID: 8, ObligacionID: 1, Estado: models.EstadoImplementado, Porcentaje: 100, AplicaPara: "PSE"},
	}, []IncidentRow{{ID: 1, EmpresaID: 7, Criticidad: "Alta", Estado: "Abierto"}}))

	rows, err := s.Execute(ctx, "SELECT COUNT(*) AS valor FROM cumplimientos WHERE empresa_id = ${empresa_id}",
		map[string]string{"empresa_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, Value(rows))

	rows, err = s.Execute(ctx, "SELECT COUNT(*) AS valor FROM incidentes WHERE criticidad = 'Alta'", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, Value(rows))
}

func TestSession_LoadEscapesText(t *testing.T) {
	ctx := context.Background()
	s := NewSession()
	require.NoError(t, s.Load(ctx, nil, []IncidentRow{{ID: 1, EmpresaID: 1, Criticidad: "Alta", Estado: "O'Brien"}}))

	rows, err := s.Execute(ctx, "SELECT COUNT(*) FROM incidentes WHERE estado = 'O''Brien'", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, Value(rows))
}

func TestValue(t *testing.T) {
	assert.Equal(t, 0.0, Value(nil))
	assert.Equal(t, 0.0, Value([]map[string]interface{}{{"valor": nil}}))
	assert.Equal(t, 42.5, Value([]map[string]interface{}{{"valor": 42.5}}))
	assert.Equal(t, 3.0, Value([]map[string]interface{}{{"total": int64(3)}}))
	assert.Equal(t, 0.0, Value([]map[string]interface{}{{"a": 1, "b": 2}}))
}

func TestIndicatorMeets(t *testing.T) {
	mayor := models.Indicator{Umbral: 80, Comparacion: models.ComparacionMayorIgual}
	menor := models.Indicator{Umbral: 2, Comparacion: models.ComparacionMenorIgual}

	assert.True(t, mayor.Meets(80))
	assert.False(t, mayor.Meets(79.9))
	assert.True(t, menor.Meets(2))
	assert.False(t, menor.Meets(3))
}

func TestEvaluate(t *testing.T) {
	db := testutil.SetupDB(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	obligations := testutil.CreateObligations(t, db, 1, 2, "PSE")
	now := time.Now()
	for i, estado := range []string{models.EstadoImplementado, models.EstadoPendiente} {
		require.NoError(t, db.Create(&models.ComplianceRecord{
			EmpresaID:         company.EmpresaID,
			ObligacionID:      obligations[i].ObligacionID,
			Estado:            estado,
			FechaModificacion: &now,
		}).Error)
	}
	testutil.CreateIncident(t, db, company.EmpresaID, "Phishing")

	catalog := func() []models.Indicator {
		return []models.Indicator{
			{
				Codigo:      "IMPL",
				Nombre:      "Obligaciones implementadas",
				SQL:         "SELECT COUNT(*) AS valor FROM cumplimientos WHERE empresa_id = ${empresa_id} AND estado = 'Implementado' AND aplica_para = 'PSE'",
				Umbral:      2,
				Comparacion: models.ComparacionMayorIgual,
			},
			{
				Codigo:      "INC",
				Nombre:      "Incidentes abiertos",
				SQL:         "SELECT COUNT(*) AS valor FROM incidentes WHERE empresa_id = ${empresa_id}",
				Umbral:      1,
				Comparacion: models.ComparacionMenorIgual,
			},
			{Codigo: "BAD", SQL: "SELECT FROM"},
		}
	}

	results, err := NewService(catalog).Evaluate(context.Background(), company.EmpresaID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Result{Codigo: "IMPL", Nombre: "Obligaciones implementadas", Valor: 1, Umbral: 2, Cumple: false}, results[0])
	assert.Equal(t, Result{Codigo: "INC", Nombre: "Incidentes abiertos", Valor: 1, Umbral: 1, Cumple: true}, results[1])
}

func TestEvaluate_UnknownCompany(t *testing.T) {
	testutil.SetupDB(t)

	_, err := NewService(func() []models.Indicator { return nil }).Evaluate(context.Background(), 404)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
