package utils

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "undefined", "NULL", "0", "-3", "abc"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidInput, raw)
	}
}

func TestStatusAndPublicMessage(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{NotFoundf("Incidente %d no encontrado", 7), http.StatusNotFound, "Incidente 7 no encontrado"},
		{Conflictf("ya existe"), http.StatusConflict, "ya existe"},
		{LimitReachedf("máximo 6"), http.StatusBadRequest, "máximo 6"},
		{&ValidationError{Message: "Datos inválidos", Detalles: []string{"x"}}, http.StatusBadRequest, "Datos inválidos: x"},
		{io.EOF, http.StatusInternalServerError, "EOF"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFromError(tt.err))
		assert.Equal(t, tt.msg, PublicMessage(tt.err))
	}
}

func TestParseFlexibleDate(t *testing.T) {
	for _, raw := range []string{"2025-03-01T10:30", "2025-03-01 10:30:00", "2025-03-01T10:30:00"} {
		got, err := ParseFlexibleDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 10, got.Hour())
		assert.Equal(t, 30, got.Minute())
	}
	day, err := ParseFlexibleDate("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.March, day.Month())

	_, err = ParseFlexibleDate("01/03/2025")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseFlexibleDate("  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Politica_de_Seguridad.pdf", SanitizeFilename("Política de Seguridad.pdf"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "informe.docx", SanitizeFilename(`C:\temp\informe.docx`))
	assert.Equal(t, "", SanitizeFilename(".."))
}

func TestGeneratedFileNames(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 5, 7, 0, time.UTC)
	content := []byte("evidencia")

	name := EvidenceFileName(now, content, "acta.pdf")
	assert.Equal(t, "20250301_090507_"+MD5Hex(content)[:8]+"_acta.pdf", name)

	section := SectionFileName(now, content, "1a2b3c4d", ".png")
	assert.Equal(t, "20250301_090507_"+SHA256Hex(content)[:8]+"_1a2b3c4d.png", section)
}

func TestWriteAndRemoveFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empresa_1")

	path, err := WriteFileAtomic(dir, "a.txt", []byte("hola"))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hola", string(data))

	removed, err := RemoveFileAndEmptyParent(path)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	removed, err = RemoveFileAndEmptyParent(path)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.True(t, HasPathSeparator("../x.json"))
	assert.True(t, HasPathSeparator(`a\b`))
	assert.False(t, HasPathSeparator("ANCI_final_1.json"))
}

func TestWriteDirectoryTarGz(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "actual.json"), []byte(`{}`), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archivos"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archivos", "log.txt"), []byte("log"), 0644))

	var buf bytes.Buffer
	require.NoError(t, WriteDirectoryTarGz(&buf, dir, "incidente_1"))

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	assert.Contains(t, names, "incidente_1/actual.json")
	assert.Contains(t, names, "incidente_1/archivos/log.txt")
}

func TestValidation(t *testing.T) {
	type payload struct {
		RUT  string `validate:"required"`
		Tipo string `validate:"omitempty,oneof=OIV PSE"`
	}
	err := ValidateStruct(payload{Tipo: "XYZ"})
	require.Error(t, err)
	details := ValidationDetails(err)
	assert.Len(t, details, 2)
	assert.Contains(t, details[0], "RUT")

	assert.Equal(t, "76123456", RUTWithoutDV("76.123.456-7"))
	assert.Equal(t, "76123456", RUTWithoutDV("76123456"))
}
