package service

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// Taxonomy is a set of industries and their keywords.
type Taxonomy struct {
	Industries []TaxonomyIndustry `yaml:"industries"`
}

// TaxonomyIndustry is one industry of a taxonomy.
type TaxonomyIndustry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

// DefaultTaxonomy returns the built-in taxonomy.
func DefaultTaxonomy() (Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(defaultTaxonomy, &t); err != nil {
		return Taxonomy{}, fmt.Errorf("parse default taxonomy: %w", err)
	}
	return t, nil
}

// ReadTaxonomy decodes a YAML taxonomy.
func ReadTaxonomy(r io.Reader) (Taxonomy, error) {
	var t Taxonomy
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy: %w", err)
	}
	return t, nil
}

// SeedReport counts the entities a seed run created.
type SeedReport struct {
	Industries int64
	Keywords   int64
}

// Seeder loads a taxonomy into the entity store.
type Seeder struct {
	entities *Entities
	logger   *slog.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(entities *Entities, logger *slog.Logger) *Seeder {
	return &Seeder{entities: entities, logger: logger}
}

// Seed get-or-creates every industry and keyword of the taxonomy.
// Running it again creates nothing.
func (s *Seeder) Seed(ctx context.Context, taxonomy Taxonomy) (SeedReport, error) {
	industriesBefore, keywordsBefore, err := s.entities.Counts(ctx)
	if err != nil {
		return SeedReport{}, err
	}

	for _, entry := range taxonomy.Industries {
		industry, ok, err := s.entities.DescribeIndustry(ctx, entry.Name, entry.Description)
		if err != nil {
			return SeedReport{}, fmt.Errorf("seed industry %s: %w", entry.Name, err)
		}
		if !ok {
			s.logger.Warn("skipping invalid industry", slog.String("name", entry.Name))
			continue
		}
		for _, text := range entry.Keywords {
			if _, ok, err := s.entities.Keyword(ctx, text, industry.ID()); err != nil {
				return SeedReport{}, fmt.Errorf("seed keyword %s: %w", text, err)
			} else if !ok {
				s.logger.Warn("skipping invalid keyword",
					slog.String("industry", industry.Name()),
					slog.String("keyword", text),
				)
			}
		}
	}

	industriesAfter, keywordsAfter, err := s.entities.Counts(ctx)
	if err != nil {
		return SeedReport{}, err
	}
	report := SeedReport{
		Industries: industriesAfter - industriesBefore,
		Keywords:   keywordsAfter - keywordsBefore,
	}
	s.logger.Info("seeded taxonomy",
		slog.Int64("industries", report.Industries),
		slog.Int64("keywords", report.Keywords),
	)
	return report, nil
}
