package indicator

import (
	"context"
	"fmt"
	"io"
	"strings"

	sqle "github.com/dolthub/go-mysql-server"
	"github.com/dolthub/go-mysql-server/memory"
	"github.com/dolthub/go-mysql-server/sql"
	"github.com/dolthub/go-mysql-server/sql/types"

	"agentedigitalapi/utils"
)

const databaseName = "indicadores"

// ComplianceRow is one compliance record as seen by indicator queries.
type ComplianceRow struct {
	ID           uint
	EmpresaID    uint
	ObligacionID uint
	Estado       string
	Porcentaje   int
	AplicaPara   string
}

// IncidentRow is one incident as seen by indicator queries.
type IncidentRow struct {
	ID         uint
	EmpresaID  uint
	Criticidad string
	Estado     string
}

// Session is an in-memory MySQL database holding one company's rows.
type Session struct {
	Engine   *sqle.Engine
	Provider *memory.DbProvider
}

// NewSession creates the in-memory database with the cumplimientos and
// incidentes tables.
func NewSession() *Session {
	db := memory.NewDatabase(databaseName)

	cumplimientos := sql.NewPrimaryKeySchema(sql.Schema{
		{Name: "id", Type: types.Int64, Source: "cumplimientos", Nullable: false, PrimaryKey: true},
		{Name: "empresa_id", Type: types.Int64, Source: "cumplimientos"},
		{Name: "obligacion_id", Type: types.Int64, Source: "cumplimientos"},
		{Name: "estado", Type: types.Text, Source: "cumplimientos", Nullable: true},
		{Name: "porcentaje", Type: types.Int64, Source: "cumplimientos"},
		{Name: "aplica_para", Type: types.Text, Source: "cumplimientos", Nullable: true},
	})
	db.AddTable("cumplimientos", memory.NewTable(db, "cumplimientos", cumplimientos, db.GetForeignKeyCollection()))

	incidentes := sql.NewPrimaryKeySchema(sql.Schema{
		{Name: "id", Type: types.Int64, Source: "incidentes", Nullable: false, PrimaryKey: true},
		{Name: "empresa_id", Type: types.Int64, Source: "incidentes"},
		{Name: "criticidad", Type: types.Text, Source: "incidentes", Nullable: true},
		{Name: "estado", Type: types.Text, Source: "incidentes", Nullable: true},
	})
	db.AddTable("incidentes", memory.NewTable(db, "incidentes", incidentes, db.GetForeignKeyCollection()))

	provider := memory.NewDBProvider(db)
	return &Session{Engine: sqle.NewDefault(provider), Provider: provider}
}

func (s *Session) context(ctx context.Context) *sql.Context {
	session := memory.NewSession(sql.NewBaseSession(), s.Provider)
	sqlCtx := sql.NewContext(ctx, sql.WithSession(session))
	sqlCtx.SetCurrentDatabase(databaseName)
	return sqlCtx
}

// Load inserts the given rows.
func (s *Session) Load(ctx context.Context, compliance []ComplianceRow, incidents []IncidentRow) error {
	sqlCtx := s.context(ctx)
	for _, c := range compliance {
		stmt := fmt.Sprintf("INSERT INTO cumplimientos (id, empresa_id, obligacion_id, estado, porcentaje, aplica_para) VALUES (%d, %d, %d, '%s', %d, '%s')",
			c.ID, c.EmpresaID, c.ObligacionID, utils.EscapeSQL(c.Estado), c.Porcentaje, utils.EscapeSQL(c.AplicaPara))
		if err := s.exec(sqlCtx, stmt); err != nil {
			return fmt.Errorf("failed to load compliance row %d: %w", c.ID, err)
		}
	}
	for _, i := range incidents {
		stmt := fmt.Sprintf("INSERT INTO incidentes (id, empresa_id, criticidad, estado) VALUES (%d, %d, '%s', '%s')",
			i.ID, i.EmpresaID, utils.EscapeSQL(i.Criticidad), utils.EscapeSQL(i.Estado))
		if err := s.exec(sqlCtx, stmt); err != nil {
			return fmt.Errorf("failed to load incident row %d: %w", i.ID, err)
		}
	}
	return nil
}

func (s *Session) exec(ctx *sql.Context, stmt string) error {
	_, rowIter, err := s.Engine.Query(ctx, stmt)
	if err != nil {
		return err
	}
	defer rowIter.Close(ctx)
	for {
		if _, err := rowIter.Next(ctx); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Execute runs sqlTemplate with ${name} variables substituted and returns the
// rows keyed by column name.
func (s *Session) Execute(ctx context.Context, sqlTemplate string, variables map[string]string) ([]map[string]interface{}, error) {
	finalSQL := sqlTemplate
	for name, value := range variables {
		finalSQL = strings.ReplaceAll(finalSQL, "${"+name+"}", value)
	}

	sqlCtx := s.context(ctx)
	schema, rowIter, err := s.Engine.Query(sqlCtx, finalSQL)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rowIter.Close(sqlCtx)

	results := []map[string]interface{}{}
	for {
		row, err := rowIter.Next(sqlCtx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch row: %w", err)
		}
		rowMap := make(map[string]interface{}, len(schema))
		for i, col := range schema {
			rowMap[col.Name] = row[i]
		}
		results = append(results, rowMap)
	}
	return results, nil
}
