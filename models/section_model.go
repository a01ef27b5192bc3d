package models

import "time"

// Section kinds and data states.
const (
	TipoSeccionFija      = "FIJA"
	TipoSeccionTaxonomia = "TAXONOMIA"

	EstadoSeccionVacio    = "VACIO"
	EstadoSeccionParcial  = "PARCIAL"
	EstadoSeccionCompleto = "COMPLETO"
)

// SectionConfig describes one section of the dynamic incident form.
type SectionConfig struct {
	SeccionID      uint   `gorm:"primaryKey;column:SeccionID" json:"SeccionID" yaml:"id"`
	CodigoSeccion  string `gorm:"column:CodigoSeccion;size:50" json:"CodigoSeccion" yaml:"codigo"`
	TipoSeccion    string `gorm:"column:TipoSeccion;size:20" json:"TipoSeccion" yaml:"tipo"`
	NumeroOrden    int    `gorm:"column:NumeroOrden" json:"NumeroOrden" yaml:"orden"`
	Titulo         string `gorm:"column:Titulo;size:255" json:"Titulo" yaml:"titulo"`
	Descripcion    string `gorm:"column:Descripcion;type:text" json:"Descripcion" yaml:"descripcion"`
	CamposJSON     string `gorm:"column:CamposJSON;type:text" json:"CamposJSON" yaml:"campos_json"`
	AplicaOIV      bool   `gorm:"column:AplicaOIV" json:"AplicaOIV" yaml:"aplica_oiv"`
	AplicaPSE      bool   `gorm:"column:AplicaPSE" json:"AplicaPSE" yaml:"aplica_pse"`
	Activo         bool   `gorm:"column:Activo" json:"Activo" yaml:"activo"`
	ColorIndicador string `gorm:"column:ColorIndicador;size:20" json:"ColorIndicador" yaml:"color"`
	IconoSeccion   string `gorm:"column:IconoSeccion;size:50" json:"IconoSeccion" yaml:"icono"`
	MaxComentarios int    `gorm:"column:MaxComentarios;default:6" json:"MaxComentarios" yaml:"max_comentarios"`
	MaxArchivos    int    `gorm:"column:MaxArchivos;default:10" json:"MaxArchivos" yaml:"max_archivos"`
	MaxSizeMB      int    `gorm:"column:MaxSizeMB;default:10" json:"MaxSizeMB" yaml:"max_size_mb"`
}

// TableName specifies the static table name for GORM.
func (SectionConfig) TableName() string {
	return "ANCI_SECCIONES_CONFIG"
}

// AppliesTo reports whether the section is shown to a company of the given type.
func (s SectionConfig) AppliesTo(tipoEmpresa string) bool {
	if s.TipoSeccion != TipoSeccionTaxonomia {
		return true
	}
	switch tipoEmpresa {
	case TipoEmpresaAmbas:
		return true
	case TipoEmpresaOIV:
		return s.AplicaOIV
	case TipoEmpresaPSE:
		return s.AplicaPSE
	}
	return false
}

// SectionData stores the form values of one section of one incident.
type SectionData struct {
	IncidenteID          uint      `gorm:"primaryKey;column:IncidenteID;autoIncrement:false" json:"IncidenteID"`
	SeccionID            uint      `gorm:"primaryKey;column:SeccionID;autoIncrement:false" json:"SeccionID"`
	DatosJSON            string    `gorm:"column:DatosJSON;type:text" json:"DatosJSON"`
	EstadoSeccion        string    `gorm:"column:EstadoSeccion;size:20" json:"EstadoSeccion"`
	PorcentajeCompletado int       `gorm:"column:PorcentajeCompletado" json:"PorcentajeCompletado"`
	FechaActualizacion   time.Time `gorm:"column:FechaActualizacion" json:"FechaActualizacion"`
	ActualizadoPor       string    `gorm:"column:ActualizadoPor;size:100" json:"ActualizadoPor"`
}

// TableName specifies the static table name for GORM.
func (SectionData) TableName() string {
	return "INCIDENTES_SECCIONES_DATOS"
}

type SectionComment struct {
	ComentarioID     uint      `gorm:"primaryKey;column:ComentarioID" json:"ComentarioID"`
	IncidenteID      uint      `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	SeccionID        uint      `gorm:"column:SeccionID" json:"SeccionID"`
	NumeroComentario int       `gorm:"column:NumeroComentario" json:"NumeroComentario"`
	Comentario       string    `gorm:"column:Comentario;type:text" json:"Comentario"`
	TipoComentario   string    `gorm:"column:TipoComentario;size:50" json:"TipoComentario"`
	CreadoPor        string    `gorm:"column:CreadoPor;size:100" json:"CreadoPor"`
	FechaCreacion    time.Time `gorm:"column:FechaCreacion" json:"FechaCreacion"`
	Activo           bool      `gorm:"column:Activo" json:"Activo"`
}

// TableName specifies the static table name for GORM.
func (SectionComment) TableName() string {
	return "INCIDENTES_COMENTARIOS"
}

type SectionFile struct {
	ArchivoID        uint       `gorm:"primaryKey;column:ArchivoID" json:"ArchivoID"`
	IncidenteID      uint       `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	SeccionID        uint       `gorm:"column:SeccionID" json:"SeccionID"`
	NumeroArchivo    int        `gorm:"column:NumeroArchivo" json:"NumeroArchivo"`
	NombreOriginal   string     `gorm:"column:NombreOriginal;size:255" json:"NombreOriginal"`
	NombreServidor   string     `gorm:"column:NombreServidor;size:255" json:"NombreServidor"`
	RutaArchivo      string     `gorm:"column:RutaArchivo;size:500" json:"RutaArchivo"`
	TamanoKB         float64    `gorm:"column:TamanoKB" json:"TamanoKB"`
	TipoArchivo      string     `gorm:"column:TipoArchivo;size:100" json:"TipoArchivo"`
	HashArchivo      string     `gorm:"column:HashArchivo;size:64" json:"HashArchivo"`
	Descripcion      string     `gorm:"column:Descripcion;type:text" json:"Descripcion"`
	SubidoPor        string     `gorm:"column:SubidoPor;size:100" json:"SubidoPor"`
	FechaSubida      time.Time  `gorm:"column:FechaSubida" json:"FechaSubida"`
	Activo           bool       `gorm:"column:Activo" json:"Activo"`
	FechaEliminacion *time.Time `gorm:"column:FechaEliminacion" json:"FechaEliminacion,omitempty"`
	EliminadoPor     string     `gorm:"column:EliminadoPor;size:100" json:"EliminadoPor,omitempty"`
}

// TableName specifies the static table name for GORM.
func (SectionFile) TableName() string {
	return "INCIDENTES_ARCHIVOS"
}

// SectionAudit is the append-only action log of the dynamic form.
type SectionAudit struct {
	AuditoriaID uint      `gorm:"primaryKey;column:AuditoriaID" json:"AuditoriaID"`
	IncidenteID uint      `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	SeccionID   *uint     `gorm:"column:SeccionID" json:"SeccionID"`
	TipoAccion  string    `gorm:"column:TipoAccion;size:50" json:"TipoAccion"`
	DatosNuevos string    `gorm:"column:DatosNuevos;type:text" json:"DatosNuevos"`
	Usuario     string    `gorm:"column:Usuario;size:100" json:"Usuario"`
	FechaAccion time.Time `gorm:"column:FechaAccion" json:"FechaAccion"`
}

// TableName specifies the static table name for GORM.
func (SectionAudit) TableName() string {
	return "INCIDENTES_AUDITORIA"
}
