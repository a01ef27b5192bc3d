package dto

// TaxonomySelection is one taxonomy chosen in the incident form.
type TaxonomySelection struct {
	ID                  string `json:"id"`
	Justificacion       string `json:"justificacion"`
	DescripcionProblema string `json:"descripcionProblema"`
}

// IncidentCreate is the body of the full incident creation form.
type IncidentCreate struct {
	EmpresaID              uint                `json:"empresa_id"`
	TipoEmpresa            string              `json:"tipo_empresa"`
	TipoRegistro           string              `json:"tipo_registro"`
	TituloIncidente        string              `json:"titulo_incidente"`
	FechaDeteccion         string              `json:"fecha_deteccion"`
	FechaOcurrencia        string              `json:"fecha_ocurrencia"`
	Criticidad             string              `json:"criticidad"`
	AlcanceGeografico      string              `json:"alcance_geografico"`
	DescripcionDetallada   string              `json:"descripcion_detallada"`
	ImpactoPreliminar      string              `json:"impacto_preliminar"`
	SistemasAfectados      string              `json:"sistemas_afectados"`
	ServiciosInterrumpidos string              `json:"servicios_interrumpidos"`
	TipoAmenaza            string              `json:"tipo_amenaza"`
	OrigenAtaque           string              `json:"origen_ataque"`
	ResponsableCliente     string              `json:"responsable_cliente"`
	MedidasContencion      string              `json:"medidas_contencion"`
	AnalisisCausaRaiz      string              `json:"analisis_causa_raiz"`
	LeccionesAprendidas    string              `json:"lecciones_aprendidas"`
	RecomendacionesMejora  string              `json:"recomendaciones_mejora"`
	TipoFlujo              string              `json:"tipo_flujo"`
	SolicitarCSIRT         bool                `json:"solicitar_csirt"`
	Taxonomias             []TaxonomySelection `json:"taxonomias"`
	TaxonomiasSeleccionada []TaxonomySelection `json:"taxonomias_seleccionadas"`
	Usuario                string              `json:"usuario"`
}

// AllTaxonomies merges both accepted keys for selected taxonomies.
func (r IncidentCreate) AllTaxonomies() []TaxonomySelection {
	if len(r.Taxonomias) == 0 {
		return r.TaxonomiasSeleccionada
	}
	return append(append([]TaxonomySelection{}, r.Taxonomias...), r.TaxonomiasSeleccionada...)
}

// IncidentQuickCreate is the minimal incident form used from the company view.
type IncidentQuickCreate struct {
	Titulo      string `json:"titulo" validate:"required"`
	Descripcion string `json:"descripcion"`
	Criticidad  string `json:"criticidad"`
	TipoFlujo   string `json:"tipo_flujo"`
	Usuario     string `json:"usuario"`
}

// DeletedFile references a section file removed in the edit form.
type DeletedFile struct {
	ID uint `json:"id"`
}

// TaxonomyAssign assigns one taxonomy to an incident.
type TaxonomyAssign struct {
	IDTaxonomia         string `json:"id_taxonomia" validate:"required"`
	Justificacion       string `json:"justificacion"`
	DescripcionProblema string `json:"descripcion_problema"`
	Usuario             string `json:"usuario"`
}

// TaxonomyCommentCreate adds a comment to an assigned taxonomy.
type TaxonomyCommentCreate struct {
	Comentario string `json:"comentario" validate:"required"`
	Usuario    string `json:"usuario"`
}

// DynamicIncidentCreate creates an incident from the dynamic section form.
type DynamicIncidentCreate struct {
	EmpresaID      uint                   `json:"empresa_id" validate:"required"`
	Titulo         string                 `json:"titulo" validate:"required"`
	DatosIniciales map[string]interface{} `json:"datos_iniciales"`
	Usuario        string                 `json:"usuario"`
}

// SectionSave is the body of a section save.
type SectionSave struct {
	Datos   map[string]interface{} `json:"datos"`
	Usuario string                 `json:"usuario"`
}

// SectionCommentCreate adds a comment to a section.
type SectionCommentCreate struct {
	Comentario     string `json:"comentario" validate:"required"`
	TipoComentario string `json:"tipo_comentario"`
	Usuario        string `json:"usuario"`
}

// SectionFileUpload carries a multipart section upload.
type SectionFileUpload struct {
	FileName    string
	Content     []byte
	ContentType string
	Descripcion string
	Usuario     string
}

// ReportGenerate requests an ANCI report document.
type ReportGenerate struct {
	Tipo    string `json:"tipo" validate:"required"`
	Usuario string `json:"usuario"`
}
