package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/repository"
	"agentedigitalapi/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = `
obligaciones:
  - id: 1
    articulo: "Art. 01"
    descripcion: "Primera"
    aplica_para: Ambos
  - id: 2
    articulo: "Art. 02"
    descripcion: "Segunda"
    aplica_para: OIV
taxonomias:
  - id: TAX_1
    categoria: "Código malicioso"
    subcategoria: "Ransomware"
    tipo_empresa: AMBAS
    activo: true
secciones:
  - id: 1
    codigo: SEC_1
    tipo: FIJA
    orden: 1
    titulo: "Identificación"
    activo: true
`

const testIndicators = `
indicadores:
  - codigo: IMPL
    nombre: "Implementadas"
    sql: "SELECT 1 AS valor"
    umbral: 1
  - codigo: VENC
    nombre: "Vencidas"
    sql: "SELECT 0 AS valor"
    umbral: 0
    comparacion: menor_igual
`

func writeSeeds(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_catalogo.yaml"), []byte(testSeed), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_indicadores.yml"), []byte(testIndicators), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("ignored"), 0o644))
	return dir
}

func TestReadCatalog(t *testing.T) {
	catalog, err := ReadCatalog(writeSeeds(t))
	require.NoError(t, err)

	assert.Len(t, catalog.Obligaciones, 2)
	assert.Equal(t, "OIV", catalog.Obligaciones[1].AplicaPara)
	require.Len(t, catalog.Taxonomias, 1)
	assert.True(t, catalog.Taxonomias[0].Activo)
	require.Len(t, catalog.Secciones, 1)
	assert.Equal(t, models.TipoSeccionFija, catalog.Secciones[0].TipoSeccion)
	assert.Len(t, catalog.Indicadores, 2)
}

func TestReadCatalog_MissingDir(t *testing.T) {
	catalog, err := ReadCatalog(filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	assert.Empty(t, catalog.Obligaciones)
}

func TestReadCatalog_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roto.yaml"), []byte("obligaciones: [\n"), 0o644))

	_, err := ReadCatalog(dir)
	assert.Error(t, err)
}

func TestLoadData(t *testing.T) {
	db := testutil.SetupDB(t)
	prev := config.Cfg.SeedDir
	config.Cfg.SeedDir = writeSeeds(t)
	t.Cleanup(func() { config.Cfg.SeedDir = prev })

	require.NoError(t, LoadData())

	count, err := repository.NewObligationRepository().Count(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	sections, indicators := CatalogSize()
	assert.Equal(t, 1, sections)
	assert.Equal(t, 2, indicators)
	assert.Equal(t, models.ComparacionMayorIgual, Indicators()[0].Comparacion)

	// A non-empty table is left alone unless the seed is forced.
	require.NoError(t, db.Model(&models.Obligation{}).Where("ObligacionID = ?", 1).
		Update("Descripcion", "Editada").Error)
	require.NoError(t, LoadData())
	o, err := repository.NewObligationRepository().GetByID(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "Editada", o.Descripcion)

	require.NoError(t, Seed())
	o, err = repository.NewObligationRepository().GetByID(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "Primera", o.Descripcion)
}
