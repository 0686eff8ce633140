package service

import (
	"fmt"

	"supplyplan/internal/config"
	"supplyplan/internal/domain"
	"supplyplan/internal/extract"
)

// markerCount is the number of clause markers accepted from configuration:
// the starts of clauses 1 to 5.
const markerCount = 5

// NewParser builds the extraction engine from configuration. Empty lists
// fall back to the engine defaults.
func NewParser(cfg *config.ExtractConfig) (*extract.Parser, error) {
	opts := extract.DefaultOptions()
	if len(cfg.LegalForms) > 0 {
		opts.LegalForms = cfg.LegalForms
	}
	if len(cfg.ExcludedNames) > 0 {
		opts.ExcludedNames = cfg.ExcludedNames
	}
	if cfg.PlanMode != "" {
		opts.PlanMode = domain.PlanMode(cfg.PlanMode)
	}
	if len(cfg.Markers) > 0 {
		if len(cfg.Markers) != markerCount {
			return nil, fmt.Errorf("service.NewParser: expected %d clause markers, got %d", markerCount, len(cfg.Markers))
		}
		m := cfg.Markers
		opts.Markers = extract.Markers{
			Preamble:       m[0],
			YearStart:      m[0],
			YearEnd:        m[1],
			TablesStart:    m[1],
			TablesEnd:      m[2],
			DeviationStart: m[3],
			DeviationEnd:   m[4],
		}
	}

	p, err := extract.NewParser(opts)
	if err != nil {
		return nil, fmt.Errorf("service.NewParser: %w", err)
	}
	return p, nil
}
