package models

import "time"

// Incident states and criticality levels.
const (
	EstadoAbierto   = "Abierto"
	EstadoCerrado   = "Cerrado"
	CriticidadAlta  = "Alta"
	CriticidadMedia = "Media"
	CriticidadBaja  = "Baja"
)

// Incident is the central row of an incident report. Column names follow the
// numbered form sections (1.x registration, 2.x description, 3.x ANCI threat
// data, 4.x response, 5.x analysis, 6.x closure, 7.x current state).
type Incident struct {
	IncidenteID uint   `gorm:"primaryKey;column:IncidenteID" json:"IncidenteID"`
	EmpresaID   uint   `gorm:"column:EmpresaID;index" json:"EmpresaID"`
	IDVisible   string `gorm:"column:IDVisible;size:50;index" json:"IDVisible"`

	// 1.x
	TipoRegistro       string     `gorm:"column:TipoRegistro;size:100" json:"TipoRegistro"`
	Titulo             string     `gorm:"column:Titulo;size:255" json:"Titulo"`
	FechaDeteccion     *time.Time `gorm:"column:FechaDeteccion" json:"FechaDeteccion"`
	FechaOcurrencia    *time.Time `gorm:"column:FechaOcurrencia" json:"FechaOcurrencia"`
	Criticidad         string     `gorm:"column:Criticidad;size:20" json:"Criticidad"`
	OrigenIncidente    string     `gorm:"column:OrigenIncidente;type:text" json:"OrigenIncidente"`
	SolicitarCSIRT     bool       `gorm:"column:SolicitarCSIRT" json:"SolicitarCSIRT"`
	TipoApoyoCSIRT     string     `gorm:"column:TipoApoyoCSIRT;size:100" json:"TipoApoyoCSIRT"`
	UrgenciaCSIRT      string     `gorm:"column:UrgenciaCSIRT;size:50" json:"UrgenciaCSIRT"`
	ObservacionesCSIRT string     `gorm:"column:ObservacionesCSIRT;type:text" json:"ObservacionesCSIRT"`

	// 2.x
	DescripcionInicial     string `gorm:"column:DescripcionInicial;type:text" json:"DescripcionInicial"`
	SistemasAfectados      string `gorm:"column:SistemasAfectados;type:text" json:"SistemasAfectados"`
	ServiciosInterrumpidos string `gorm:"column:ServiciosInterrumpidos;type:text" json:"ServiciosInterrumpidos"`
	UsuariosAfectados      string `gorm:"column:UsuariosAfectados;size:255" json:"UsuariosAfectados"`
	TiempoIncidencia       string `gorm:"column:TiempoIncidencia;size:100" json:"TiempoIncidencia"`
	ImpactoPreliminar      string `gorm:"column:ImpactoPreliminar;type:text" json:"ImpactoPreliminar"`
	AlcanceGeografico      string `gorm:"column:AlcanceGeografico;size:255" json:"AlcanceGeografico"`

	// 3.x
	AnciImpactoPreliminar       string `gorm:"column:AnciImpactoPreliminar;type:text" json:"AnciImpactoPreliminar"`
	AnciTipoAmenaza             string `gorm:"column:AnciTipoAmenaza;size:255" json:"AnciTipoAmenaza"`
	AnciAgenteAmenaza           string `gorm:"column:AnciAgenteAmenaza;size:255" json:"AnciAgenteAmenaza"`
	AnciVulnerabilidadExplotada string `gorm:"column:AnciVulnerabilidadExplotada;type:text" json:"AnciVulnerabilidadExplotada"`
	AnciDatosComprometidos      string `gorm:"column:AnciDatosComprometidos;type:text" json:"AnciDatosComprometidos"`
	AnciAfectacionTerceros      string `gorm:"column:AnciAfectacionTerceros;type:text" json:"AnciAfectacionTerceros"`

	// 4.x
	AccionesInmediatas       string `gorm:"column:AccionesInmediatas;type:text" json:"AccionesInmediatas"`
	ResponsableCliente       string `gorm:"column:ResponsableCliente;size:255" json:"ResponsableCliente"`
	NivelEscalamiento        string `gorm:"column:NivelEscalamiento;size:100" json:"NivelEscalamiento"`
	MedidasContencion        string `gorm:"column:MedidasContencion;type:text" json:"MedidasContencion"`
	PlanComunicacion         string `gorm:"column:PlanComunicacion;type:text" json:"PlanComunicacion"`
	NotificacionesRealizadas string `gorm:"column:NotificacionesRealizadas;type:text" json:"NotificacionesRealizadas"`

	// 5.x
	CausaRaiz            string `gorm:"column:CausaRaiz;type:text" json:"CausaRaiz"`
	SolucionImplementada string `gorm:"column:SolucionImplementada;type:text" json:"SolucionImplementada"`
	DescripcionCompleta  string `gorm:"column:DescripcionCompleta;type:text" json:"DescripcionCompleta"`
	MedidasPreventivas   string `gorm:"column:MedidasPreventivas;type:text" json:"MedidasPreventivas"`
	ProximosPasos        string `gorm:"column:ProximosPasos;type:text" json:"ProximosPasos"`
	LeccionesAprendidas  string `gorm:"column:LeccionesAprendidas;type:text" json:"LeccionesAprendidas"`
	DocumentacionAdjunta string `gorm:"column:DocumentacionAdjunta;type:text" json:"DocumentacionAdjunta"`
	PlanMejora           string `gorm:"column:PlanMejora;type:text" json:"PlanMejora"`

	// 6.x
	FechaResolucion      *time.Time `gorm:"column:FechaResolucion" json:"FechaResolucion"`
	EstadoFinal          string     `gorm:"column:EstadoFinal;size:100" json:"EstadoFinal"`
	PersonaCierre        string     `gorm:"column:PersonaCierre;size:255" json:"PersonaCierre"`
	AprobacionCierre     string     `gorm:"column:AprobacionCierre;size:255" json:"AprobacionCierre"`
	ObservacionesFinales string     `gorm:"column:ObservacionesFinales;type:text" json:"ObservacionesFinales"`
	RequiereAcciones     bool       `gorm:"column:RequiereAcciones" json:"RequiereAcciones"`

	// 7.x
	DescripcionEstadoActual string `gorm:"column:DescripcionEstadoActual;type:text" json:"DescripcionEstadoActual"`
	EfectosColaterales      string `gorm:"column:EfectosColaterales;type:text" json:"EfectosColaterales"`
	ProgramaRestauracion    string `gorm:"column:ProgramaRestauracion;type:text" json:"ProgramaRestauracion"`

	EstadoActual         string     `gorm:"column:EstadoActual;size:50" json:"EstadoActual"`
	TipoFlujo            string     `gorm:"column:TipoFlujo;size:50" json:"TipoFlujo"`
	ReporteAnciID        *uint      `gorm:"column:ReporteAnciID" json:"ReporteAnciID"`
	FechaDeclaracionANCI *time.Time `gorm:"column:FechaDeclaracionANCI" json:"FechaDeclaracionANCI"`
	CreadoPor            string     `gorm:"column:CreadoPor;size:100" json:"CreadoPor"`
	ModificadoPor        string     `gorm:"column:ModificadoPor;size:100" json:"ModificadoPor"`
	FechaCreacion        time.Time  `gorm:"column:FechaCreacion" json:"FechaCreacion"`
	FechaActualizacion   *time.Time `gorm:"column:FechaActualizacion" json:"FechaActualizacion"`
}

// TableName specifies the static table name for GORM.
func (Incident) TableName() string {
	return "Incidentes"
}

// IsAnci reports whether the incident was already transformed into an ANCI report.
func (i Incident) IsAnci() bool {
	return i.ReporteAnciID != nil && *i.ReporteAnciID > 0
}

// Taxonomy is a catalog entry used to classify incidents.
type Taxonomy struct {
	IdIncidente              string `gorm:"primaryKey;column:Id_Incidente;size:50" json:"Id_Incidente" yaml:"id"`
	Area                     string `gorm:"column:Area;size:255" json:"Area" yaml:"area"`
	Efecto                   string `gorm:"column:Efecto;size:255" json:"Efecto" yaml:"efecto"`
	CategoriaDelIncidente    string `gorm:"column:Categoria_del_Incidente;size:255" json:"Categoria_del_Incidente" yaml:"categoria"`
	SubcategoriaDelIncidente string `gorm:"column:Subcategoria_del_Incidente;size:255" json:"Subcategoria_del_Incidente" yaml:"subcategoria"`
	Descripcion              string `gorm:"column:Descripcion;type:text" json:"Descripcion" yaml:"descripcion"`
	TipoEmpresa              string `gorm:"column:Tipo_Empresa;size:10" json:"Tipo_Empresa" yaml:"tipo_empresa"`
	Activo                   bool   `gorm:"column:Activo" json:"Activo" yaml:"activo"`
}

// TableName specifies the static table name for GORM.
func (Taxonomy) TableName() string {
	return "Taxonomia_incidentes"
}

// IncidentTaxonomy assigns a catalog taxonomy to an incident.
type IncidentTaxonomy struct {
	ID              uint      `gorm:"primaryKey;column:ID" json:"ID"`
	IncidenteID     uint      `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	IdTaxonomia     string    `gorm:"column:Id_Taxonomia;size:50" json:"Id_Taxonomia"`
	Comentarios     string    `gorm:"column:Comentarios;type:text" json:"Comentarios"`
	FechaAsignacion time.Time `gorm:"column:FechaAsignacion" json:"FechaAsignacion"`
	CreadoPor       string    `gorm:"column:CreadoPor;size:100" json:"CreadoPor"`
}

// TableName specifies the static table name for GORM.
func (IncidentTaxonomy) TableName() string {
	return "INCIDENTE_TAXONOMIA"
}

// IncidentEvidence is a general evidence file attached to an incident section.
type IncidentEvidence struct {
	EvidenciaID   uint      `gorm:"primaryKey;column:EvidenciaID" json:"EvidenciaID"`
	IncidenteID   uint      `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	Seccion       string    `gorm:"column:Seccion;size:20" json:"Seccion"`
	NombreArchivo string    `gorm:"column:NombreArchivo;size:255" json:"NombreArchivo"`
	RutaArchivo   string    `gorm:"column:RutaArchivo;size:500" json:"RutaArchivo"`
	TamanoKB      float64   `gorm:"column:TamanoKB" json:"TamanoKB"`
	FechaSubida   time.Time `gorm:"column:FechaSubida" json:"FechaSubida"`
	SubidoPor     string    `gorm:"column:SubidoPor;size:100" json:"SubidoPor"`
}

// TableName specifies the static table name for GORM.
func (IncidentEvidence) TableName() string {
	return "EvidenciasIncidentes"
}

// TaxonomyEvidence is a file that backs one taxonomy assignment.
type TaxonomyEvidence struct {
	EvidenciaID   uint      `gorm:"primaryKey;column:EvidenciaID" json:"EvidenciaID"`
	IncidenteID   uint      `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	TaxonomiaID   string    `gorm:"column:TaxonomiaID;size:50" json:"TaxonomiaID"`
	NombreArchivo string    `gorm:"column:NombreArchivo;size:255" json:"NombreArchivo"`
	RutaArchivo   string    `gorm:"column:RutaArchivo;size:500" json:"RutaArchivo"`
	Descripcion   string    `gorm:"column:Descripcion;type:text" json:"Descripcion"`
	FechaSubida   time.Time `gorm:"column:FechaSubida" json:"FechaSubida"`
	SubidoPor     string    `gorm:"column:SubidoPor;size:100" json:"SubidoPor"`
}

// TableName specifies the static table name for GORM.
func (TaxonomyEvidence) TableName() string {
	return "EVIDENCIAS_TAXONOMIA"
}

// TaxonomyComment is a free-text note on one taxonomy assignment.
type TaxonomyComment struct {
	ComentarioID  uint      `gorm:"primaryKey;column:ComentarioID" json:"ComentarioID"`
	IncidenteID   uint      `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	TaxonomiaID   string    `gorm:"column:TaxonomiaID;size:50" json:"TaxonomiaID"`
	Comentario    string    `gorm:"column:Comentario;type:text" json:"Comentario"`
	FechaCreacion time.Time `gorm:"column:FechaCreacion" json:"FechaCreacion"`
	CreadoPor     string    `gorm:"column:CreadoPor;size:100" json:"CreadoPor"`
}

// TableName specifies the static table name for GORM.
func (TaxonomyComment) TableName() string {
	return "COMENTARIOS_TAXONOMIA"
}

// IncidentHistory records one column change made through the edit form.
type IncidentHistory struct {
	HistorialID     uint      `gorm:"primaryKey;column:HistorialID" json:"HistorialID"`
	IncidenteID     uint      `gorm:"column:IncidenteID;index" json:"IncidenteID"`
	CampoModificado string    `gorm:"column:CampoModificado;size:100" json:"CampoModificado"`
	ValorAnterior   string    `gorm:"column:ValorAnterior;type:text" json:"ValorAnterior"`
	ValorNuevo      string    `gorm:"column:ValorNuevo;type:text" json:"ValorNuevo"`
	Usuario         string    `gorm:"column:Usuario;size:100" json:"Usuario"`
	FechaCambio     time.Time `gorm:"column:FechaCambio" json:"FechaCambio"`
}

// TableName specifies the static table name for GORM.
func (IncidentHistory) TableName() string {
	return "HistorialIncidentes"
}
