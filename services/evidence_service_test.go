package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"agentedigitalapi/models"
	"agentedigitalapi/services/dto"
	"agentedigitalapi/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "curl/8.0", 255, "curl/8.0"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"multibyte cut", "ñandú", 4, "ñand"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateRunes(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestEvidenceUpload_TruncatesUserAgentByCharacters(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.SetupDirs(t)
	company := testutil.CreateCompany(t, db, 0, "Banco Austral", models.TipoEmpresaPSE)
	testutil.CreateObligations(t, db, 1, 1, "Ambos")
	record := models.ComplianceRecord{EmpresaID: company.EmpresaID, ObligacionID: 1, Estado: models.EstadoPendiente}
	require.NoError(t, db.Create(&record).Error)

	// 254 ASCII bytes followed by two-byte runes: a byte cut at 255 would split one.
	agent := strings.Repeat("a", 254) + strings.Repeat("ñ", 10)
	svc := NewEvidenceService()
	res, err := svc.Upload(context.Background(), record.CumplimientoID, dto.EvidenceUpload{
		FileName:  "acta.pdf",
		Content:   []byte("%PDF-1.4"),
		UserAgent: agent,
	})
	require.NoError(t, err)

	var stored models.ComplianceEvidence
	require.NoError(t, db.First(&stored, res.EvidenciaID).Error)
	assert.True(t, utf8.ValidString(stored.UserAgent))
	assert.Equal(t, maxUserAgentLength, utf8.RuneCountInString(stored.UserAgent))
	assert.True(t, strings.HasSuffix(stored.UserAgent, "ñ"))
}
