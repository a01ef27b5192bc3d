package models

import "time"

// Compliance states tracked per company and obligation.
const (
	EstadoImplementado = "Implementado"
	EstadoEnProceso    = "En Proceso"
	EstadoPendiente    = "Pendiente"
	EstadoVencido      = "Vencido"
	EstadoNoAplica     = "No Aplica"
)

// Obligation is a regulatory requirement. AplicaPara is OIV, PSE or Ambos.
type Obligation struct {
	ObligacionID                uint   `gorm:"primaryKey;column:ObligacionID" json:"ObligacionID" yaml:"id"`
	ArticuloNorma               string `gorm:"column:ArticuloNorma;size:100" json:"ArticuloNorma" yaml:"articulo"`
	Descripcion                 string `gorm:"column:Descripcion;type:text" json:"Descripcion" yaml:"descripcion"`
	MedioDeVerificacionSugerido string `gorm:"column:MedioDeVerificacionSugerido;type:text" json:"MedioDeVerificacionSugerido" yaml:"medio_verificacion"`
	AplicaPara                  string `gorm:"column:AplicaPara;size:10" json:"AplicaPara" yaml:"aplica_para"`
	ContactoTecnicoComercial    string `gorm:"column:ContactoTecnicoComercial;size:255" json:"ContactoTecnicoComercial" yaml:"contacto"`
}

// TableName specifies the static table name for GORM.
func (Obligation) TableName() string {
	return "OBLIGACIONES"
}

// ComplianceRecord links a company to one obligation with its progress.
type ComplianceRecord struct {
	CumplimientoID              uint       `gorm:"primaryKey;column:CumplimientoID" json:"CumplimientoID"`
	EmpresaID                   uint       `gorm:"column:EmpresaID;index" json:"EmpresaID"`
	ObligacionID                uint       `gorm:"column:ObligacionID;index" json:"ObligacionID"`
	Estado                      string     `gorm:"column:Estado;size:50" json:"Estado"`
	PorcentajeAvance            int        `gorm:"column:PorcentajeAvance" json:"PorcentajeAvance"`
	Responsable                 string     `gorm:"column:Responsable;size:255" json:"Responsable"`
	FechaTermino                *time.Time `gorm:"column:FechaTermino" json:"FechaTermino"`
	Observaciones               string     `gorm:"column:Observaciones;type:text" json:"Observaciones"`
	ObservacionesCiberseguridad string     `gorm:"column:ObservacionesCiberseguridad;type:text" json:"ObservacionesCiberseguridad"`
	ObservacionesLegales        string     `gorm:"column:ObservacionesLegales;type:text" json:"ObservacionesLegales"`
	FechaModificacion           *time.Time `gorm:"column:FechaModificacion" json:"FechaModificacion"`
}

// TableName specifies the static table name for GORM.
func (ComplianceRecord) TableName() string {
	return "CumplimientoEmpresa"
}

// ComplianceHistory is one state/progress transition of a compliance record.
type ComplianceHistory struct {
	HistorialID        uint      `gorm:"primaryKey;column:HistorialID" json:"HistorialID"`
	CumplimientoID     uint      `gorm:"column:CumplimientoID;index" json:"CumplimientoID"`
	EstadoAnterior     string    `gorm:"column:EstadoAnterior;size:50" json:"EstadoAnterior"`
	EstadoNuevo        string    `gorm:"column:EstadoNuevo;size:50" json:"EstadoNuevo"`
	PorcentajeAnterior int       `gorm:"column:PorcentajeAnterior" json:"PorcentajeAnterior"`
	PorcentajeNuevo    int       `gorm:"column:PorcentajeNuevo" json:"PorcentajeNuevo"`
	Comentario         string    `gorm:"column:Comentario;type:text" json:"Comentario"`
	Usuario            string    `gorm:"column:Usuario;size:100" json:"Usuario"`
	FechaCambio        time.Time `gorm:"column:FechaCambio" json:"FechaCambio"`
}

// TableName specifies the static table name for GORM.
func (ComplianceHistory) TableName() string {
	return "HistorialCumplimiento"
}

// ComplianceEvidence is an uploaded file backing a compliance record.
type ComplianceEvidence struct {
	EvidenciaID             uint       `gorm:"primaryKey;column:EvidenciaID" json:"EvidenciaID"`
	CumplimientoID          uint       `gorm:"column:CumplimientoID;index" json:"CumplimientoID"`
	NombreArchivoOriginal   string     `gorm:"column:NombreArchivoOriginal;size:255" json:"NombreArchivoOriginal"`
	NombreArchivoAlmacenado string     `gorm:"column:NombreArchivoAlmacenado;size:255" json:"NombreArchivoAlmacenado"`
	RutaArchivo             string     `gorm:"column:RutaArchivo;size:500" json:"RutaArchivo"`
	TipoArchivo             string     `gorm:"column:TipoArchivo;size:100" json:"TipoArchivo"`
	TamanoArchivoKB         float64    `gorm:"column:TamanoArchivoKB" json:"TamanoArchivoKB"`
	FechaSubida             time.Time  `gorm:"column:FechaSubida" json:"FechaSubida"`
	Version                 int        `gorm:"column:Version" json:"Version"`
	UsuarioQueSubio         string     `gorm:"column:UsuarioQueSubio;size:100" json:"UsuarioQueSubio"`
	Descripcion             string     `gorm:"column:Descripcion;type:text" json:"Descripcion"`
	Comentario              string     `gorm:"column:Comentario;type:text" json:"Comentario"`
	FechaVigencia           *time.Time `gorm:"column:FechaVigencia" json:"FechaVigencia"`
	IPAddress               string     `gorm:"column:IPAddress;size:45" json:"IPAddress"`
	UserAgent               string     `gorm:"column:UserAgent;size:255" json:"UserAgent"`
	InquilinoID             uint       `gorm:"column:InquilinoID" json:"InquilinoID"`
	EmpresaID               uint       `gorm:"column:EmpresaID;index" json:"EmpresaID"`
}

// TableName specifies the static table name for GORM.
func (ComplianceEvidence) TableName() string {
	return "EvidenciasCumplimiento"
}

// IsValidEstado reports whether e is a known compliance state.
func IsValidEstado(e string) bool {
	switch e {
	case EstadoImplementado, EstadoEnProceso, EstadoPendiente, EstadoVencido, EstadoNoAplica:
		return true
	}
	return false
}
