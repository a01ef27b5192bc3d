package models

// All returns one zero value of every persisted model, in dependency order,
// for schema migration.
func All() []interface{} {
	return []interface{}{
		&Tenant{},
		&Company{},
		&Obligation{},
		&ComplianceRecord{},
		&ComplianceHistory{},
		&ComplianceEvidence{},
		&Incident{},
		&Taxonomy{},
		&IncidentTaxonomy{},
		&IncidentEvidence{},
		&TaxonomyEvidence{},
		&TaxonomyComment{},
		&IncidentHistory{},
		&SectionConfig{},
		&SectionData{},
		&SectionComment{},
		&SectionFile{},
		&SectionAudit{},
		&AnciReport{},
	}
}
