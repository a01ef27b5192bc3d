package models

import "time"

// Company types. AMBAS companies are regulated as both OIV and PSE.
const (
	TipoEmpresaOIV   = "OIV"
	TipoEmpresaPSE   = "PSE"
	TipoEmpresaAmbas = "AMBAS"
)

// Tenant is the top-level customer account that owns one or more companies.
type Tenant struct {
	InquilinoID   uint      `gorm:"primaryKey;column:InquilinoID" json:"InquilinoID"`
	RazonSocial   string    `gorm:"column:RazonSocial;size:255" json:"RazonSocial" validate:"required"`
	RUT           string    `gorm:"column:RUT;size:20" json:"RUT" validate:"required"`
	FechaCreacion time.Time `gorm:"column:FechaCreacion" json:"FechaCreacion"`
	EstadoActivo  bool      `gorm:"column:EstadoActivo" json:"EstadoActivo"`
}

// TableName specifies the static table name for GORM.
func (Tenant) TableName() string {
	return "Inquilinos"
}

// EstadoLabel renders EstadoActivo the way the admin UI expects it.
func (t Tenant) EstadoLabel() string {
	if t.EstadoActivo {
		return "Activo"
	}
	return "Inactivo"
}

// Company is a regulated entity. TipoEmpresa decides which obligations,
// taxonomies and report sections apply to it.
type Company struct {
	EmpresaID     uint      `gorm:"primaryKey;column:EmpresaID" json:"EmpresaID"`
	RazonSocial   string    `gorm:"column:RazonSocial;size:255" json:"RazonSocial"`
	RUT           string    `gorm:"column:RUT;size:20" json:"RUT"`
	TipoEmpresa   string    `gorm:"column:TipoEmpresa;size:10" json:"TipoEmpresa"`
	InquilinoID   *uint     `gorm:"column:InquilinoID;index" json:"InquilinoID"`
	FechaCreacion time.Time `gorm:"column:FechaCreacion" json:"FechaCreacion"`
}

// TableName specifies the static table name for GORM.
func (Company) TableName() string {
	return "Empresas"
}

// IsValidTipoEmpresa reports whether t is one of OIV, PSE or AMBAS.
func IsValidTipoEmpresa(t string) bool {
	switch t {
	case TipoEmpresaOIV, TipoEmpresaPSE, TipoEmpresaAmbas:
		return true
	}
	return false
}
