package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDoc_PathsCarryAPIPrefix(t *testing.T) {
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "/", doc.BasePath)
	require.NotEmpty(t, doc.Paths)
	for p := range doc.Paths {
		assert.True(t, strings.HasPrefix(p, "/api/"), "path %s is not served under /api", p)
	}
	assert.Contains(t, doc.Paths, "/api/health")
	assert.Contains(t, doc.Paths, "/api/incidentes/crear")
}
