package dto

// TenantCreate represents the request body for creating a tenant.
type TenantCreate struct {
	RazonSocial string `json:"razon_social" validate:"required"`
	RUT         string `json:"rut" validate:"required"`
}

// CompanyCreate represents the request body for creating a company under a tenant.
// TipoEmpresa defaults to PSE when empty.
type CompanyCreate struct {
	RazonSocial string `json:"razon_social" validate:"required"`
	RUT         string `json:"rut" validate:"required"`
	TipoEmpresa string `json:"tipo_empresa" validate:"omitempty,oneof=OIV PSE AMBAS"`
}

// ComplianceUpsert is the body of the compliance upsert and partial update.
// Nil pointers mean "not provided".
type ComplianceUpsert struct {
	EmpresaID                   uint    `json:"EmpresaID" validate:"required"`
	ObligacionID                uint    `json:"ObligacionID" validate:"required"`
	Estado                      *string `json:"Estado"`
	PorcentajeAvance            *int    `json:"PorcentajeAvance" validate:"omitempty,min=0,max=100"`
	Responsable                 *string `json:"Responsable"`
	FechaTermino                *string `json:"FechaTermino"`
	Observaciones               *string `json:"Observaciones"`
	ObservacionesCiberseguridad *string `json:"ObservacionesCiberseguridad"`
	ObservacionesLegales        *string `json:"ObservacionesLegales"`
	Usuario                     string  `json:"usuario"`
	Comentario                  string  `json:"comentario"`
}

// ComplianceUpdate is the partial update body; identifiers come from the path.
type ComplianceUpdate struct {
	Estado                      *string `json:"Estado"`
	PorcentajeAvance            *int    `json:"PorcentajeAvance" validate:"omitempty,min=0,max=100"`
	Responsable                 *string `json:"Responsable"`
	FechaTermino                *string `json:"FechaTermino"`
	Observaciones               *string `json:"Observaciones"`
	ObservacionesCiberseguridad *string `json:"ObservacionesCiberseguridad"`
	ObservacionesLegales        *string `json:"ObservacionesLegales"`
	Usuario                     string  `json:"usuario"`
	Comentario                  string  `json:"comentario"`
}

// Empty reports whether no updatable field was provided.
func (u ComplianceUpdate) Empty() bool {
	return u.Estado == nil && u.PorcentajeAvance == nil && u.Responsable == nil &&
		u.FechaTermino == nil && u.Observaciones == nil &&
		u.ObservacionesCiberseguridad == nil && u.ObservacionesLegales == nil
}

// EvidenceUpload carries the multipart form fields of an evidence upload.
type EvidenceUpload struct {
	FileName      string
	Content       []byte
	ContentType   string
	Descripcion   string
	FechaVigencia string
	Usuario       string
	IPAddress     string
	UserAgent     string
}

// EvidenceUpdate updates evidence metadata. At least one field must be present.
type EvidenceUpdate struct {
	Descripcion   *string `json:"descripcion"`
	FechaVigencia *string `json:"fecha_vigencia"`
}

// EvidenceComment replaces the evidence comment.
type EvidenceComment struct {
	Comentario string `json:"comentario"`
}
