package models

// Indicator comparison modes.
const (
	ComparacionMayorIgual = "mayor_igual"
	ComparacionMenorIgual = "menor_igual"
)

// Indicator is a compliance KPI defined in the seed catalog as a SQL template.
// It is evaluated in memory and never persisted.
type Indicator struct {
	Codigo      string  `json:"codigo" yaml:"codigo"`
	Nombre      string  `json:"nombre" yaml:"nombre"`
	SQL         string  `json:"sql" yaml:"sql"`
	Umbral      float64 `json:"umbral" yaml:"umbral"`
	Comparacion string  `json:"comparacion" yaml:"comparacion"`
}

// Meets reports whether valor satisfies the indicator threshold.
func (i Indicator) Meets(valor float64) bool {
	if i.Comparacion == ComparacionMenorIgual {
		return valor <= i.Umbral
	}
	return valor >= i.Umbral
}
