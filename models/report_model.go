package models

import "time"

// Report types. TipoReporteInicial is written by the ANCI transformation;
// the other three are produced by the report generator.
const (
	TipoReporteInicial    = "Inicial"
	TipoReportePreliminar = "preliminar"
	TipoReporteCompleto   = "completo"
	TipoReporteFinal      = "final"
)

// AnciReport is one generated regulatory report document.
type AnciReport struct {
	InformeID       uint      `gorm:"primaryKey;column:InformeID" json:"InformeID"`
	IncidenteID     uint      `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	TipoReporte     string    `gorm:"column:TipoReporte;size:50" json:"TipoReporte"`
	Version         int       `gorm:"column:Version" json:"Version"`
	FechaGeneracion time.Time `gorm:"column:FechaGeneracion" json:"FechaGeneracion"`
	GeneradoPor     string    `gorm:"column:GeneradoPor;size:100" json:"GeneradoPor"`
	ContenidoJSON   string    `gorm:"column:ContenidoJSON;type:text" json:"ContenidoJSON,omitempty"`
	RutaArchivo     string    `gorm:"column:RutaArchivo;size:500" json:"RutaArchivo"`
	TamanoKB        float64   `gorm:"column:TamanoKB" json:"TamanoKB"`
	Estado          string    `gorm:"column:Estado;size:50" json:"Estado"`
}

// TableName specifies the static table name for GORM.
func (AnciReport) TableName() string {
	return "INFORMES_ANCI"
}

// IsValidReportType reports whether t is a type the generator can produce.
func IsValidReportType(t string) bool {
	switch t {
	case TipoReportePreliminar, TipoReporteCompleto, TipoReporteFinal:
		return true
	}
	return false
}
