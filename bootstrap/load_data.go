package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"agentedigitalapi/config"
	"agentedigitalapi/models"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/repository"

	"gopkg.in/yaml.v3"
)

// Catalog is the content of the YAML seed files. Every file may carry any of
// the four lists; lists from several files are concatenated.
type Catalog struct {
	Obligaciones []models.Obligation    `yaml:"obligaciones"`
	Taxonomias   []models.Taxonomy      `yaml:"taxonomias"`
	Secciones    []models.SectionConfig `yaml:"secciones"`
	Indicadores  []models.Indicator     `yaml:"indicadores"`
}

// Package-level variables store cached catalog data for quick lookup throughout the application.
var (
	mu sync.RWMutex
	// SectionConfigsMap stores section configs indexed by CodigoSeccion.
	SectionConfigsMap map[string]models.SectionConfig
	// IndicatorsAll stores the indicator definitions in file order.
	IndicatorsAll []models.Indicator
)

// LoadData reads the seed catalog, caches sections and indicators and stores
// obligations, taxonomies and sections in tables that are still empty.
func LoadData() error {
	return load(false)
}

// Seed is LoadData with the upsert forced on every catalog table.
func Seed() error {
	return load(true)
}

func load(force bool) error {
	logger.Infof("Starting catalog loading from %s...", config.Cfg.SeedDir)

	catalog, err := ReadCatalog(config.Cfg.SeedDir)
	if err != nil {
		logger.Errorf("Failed to read catalog: %v", err)
		return err
	}

	if err := seedObligations(repository.NewObligationRepository(), catalog.Obligaciones, force); err != nil {
		return err
	}
	if err := seedTaxonomies(repository.NewTaxonomyRepository(), catalog.Taxonomias, force); err != nil {
		return err
	}
	if err := seedSections(repository.NewSectionRepository(), catalog.Secciones, force); err != nil {
		return err
	}
	cache(catalog)

	logger.Infof("Catalog loading completed: %d obligations, %d taxonomies, %d sections, %d indicators",
		len(catalog.Obligaciones), len(catalog.Taxonomias), len(catalog.Secciones), len(catalog.Indicadores))
	return nil
}

// ReadCatalog parses every *.yaml and *.yml file of dir in name order.
// A missing dir yields an empty catalog.
func ReadCatalog(dir string) (*Catalog, error) {
	catalog := &Catalog{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("Seed directory %s not found, catalog is empty", dir)
			return catalog, nil
		}
		return nil, fmt.Errorf("failed to read seed dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		var part Catalog
		if err := yaml.Unmarshal(data, &part); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		catalog.Obligaciones = append(catalog.Obligaciones, part.Obligaciones...)
		catalog.Taxonomias = append(catalog.Taxonomias, part.Taxonomias...)
		catalog.Secciones = append(catalog.Secciones, part.Secciones...)
		catalog.Indicadores = append(catalog.Indicadores, part.Indicadores...)
		logger.Debugf("Parsed seed file %s", name)
	}
	return catalog, nil
}

func seedObligations(repo repository.ObligationRepository, rows []models.Obligation, force bool) error {
	count, err := repo.Count(nil)
	if err != nil {
		logger.Errorf("Failed to count obligations: %v", err)
		return fmt.Errorf("failed to count obligations: %v", err)
	}
	if count > 0 && !force {
		logger.Debugf("Obligations table has %d rows, skipping seed", count)
		return nil
	}
	if err := repo.Upsert(nil, rows); err != nil {
		logger.Errorf("Failed to seed obligations: %v", err)
		return fmt.Errorf("failed to seed obligations: %v", err)
	}
	logger.Infof("Seeded %d obligations", len(rows))
	return nil
}

func seedTaxonomies(repo repository.TaxonomyRepository, rows []models.Taxonomy, force bool) error {
	count, err := repo.Count(nil)
	if err != nil {
		logger.Errorf("Failed to count taxonomies: %v", err)
		return fmt.Errorf("failed to count taxonomies: %v", err)
	}
	if count > 0 && !force {
		logger.Debugf("Taxonomy table has %d rows, skipping seed", count)
		return nil
	}
	if err := repo.Upsert(nil, rows); err != nil {
		logger.Errorf("Failed to seed taxonomies: %v", err)
		return fmt.Errorf("failed to seed taxonomies: %v", err)
	}
	logger.Infof("Seeded %d taxonomies", len(rows))
	return nil
}

func seedSections(repo repository.SectionRepository, rows []models.SectionConfig, force bool) error {
	count, err := repo.CountConfigs(nil)
	if err != nil {
		logger.Errorf("Failed to count section configs: %v", err)
		return fmt.Errorf("failed to count section configs: %v", err)
	}
	if count > 0 && !force {
		logger.Debugf("Section config table has %d rows, skipping seed", count)
		return nil
	}
	if err := repo.UpsertConfigs(nil, rows); err != nil {
		logger.Errorf("Failed to seed section configs: %v", err)
		return fmt.Errorf("failed to seed section configs: %v", err)
	}
	logger.Infof("Seeded %d section configs", len(rows))
	return nil
}

func cache(catalog *Catalog) {
	sections := make(map[string]models.SectionConfig, len(catalog.Secciones))
	for _, s := range catalog.Secciones {
		sections[s.CodigoSeccion] = s
	}
	indicators := make([]models.Indicator, 0, len(catalog.Indicadores))
	for _, ind := range catalog.Indicadores {
		if ind.Comparacion == "" {
			ind.Comparacion = models.ComparacionMayorIgual
		}
		indicators = append(indicators, ind)
	}

	mu.Lock()
	defer mu.Unlock()
	SectionConfigsMap = sections
	IndicatorsAll = indicators
}

// Indicators returns a copy of the cached indicator definitions.
func Indicators() []models.Indicator {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]models.Indicator, len(IndicatorsAll))
	copy(out, IndicatorsAll)
	return out
}

// CatalogSize reports how many sections and indicators are cached.
func CatalogSize() (sections, indicators int) {
	mu.RLock()
	defer mu.RUnlock()
	return len(SectionConfigsMap), len(IndicatorsAll)
}
