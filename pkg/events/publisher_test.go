package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualify(t *testing.T) {
	tests := []struct {
		prefix, subject, want string
	}{
		{"agentedigital", SubjectIncidentCreated, "agentedigital.incidente.creado"},
		{"agentedigital.", SubjectDeadlineOverdue, "agentedigital.plazo.vencido"},
		{"", SubjectReportGenerated, "informe_anci.generado"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, qualify(tt.prefix, tt.subject))
		})
	}
}

func TestRecorder_RecordsEvents(t *testing.T) {
	p := NewRecorder("test")
	require.NoError(t, p.Publish(context.Background(), SubjectIncidentDeleted, map[string]uint{"incidente_id": 7}))

	got := p.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "test.incidente.eliminado", got[0].Subject)
	assert.Equal(t, map[string]uint{"incidente_id": 7}, got[0].Data)
}

func TestSetup_WithoutURLUsesLogPublisher(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	p := Setup("", "x")
	_, ok := p.(*LogPublisher)
	assert.True(t, ok, "Expected LogPublisher when NATS_URL is empty")
	assert.Same(t, p, Default())

	Emit(context.Background(), SubjectIncidentCreated, nil)
}

func TestLogPublisher_RetainsNothing(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	p := Setup("", "agentedigital")
	for i := 0; i < 10000; i++ {
		Emit(context.Background(), SubjectIncidentCreated, map[string]int{"incidente_id": i})
	}
	lp, ok := p.(*LogPublisher)
	require.True(t, ok)
	assert.Equal(t, LogPublisher{prefix: "agentedigital"}, *lp)
}
