package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	SlugYearly    = "yearly"
	SlugYearly147 = "yearly-147"
	SlugMonthly   = "monthly"
)

// DefaultTiers builds the standard tiers from provider plan ids, skipping
// tiers whose id is empty.
func DefaultTiers(yearlyID, yearly147ID, monthlyID string) []Tier {
	candidates := []Tier{
		{Slug: SlugYearly, PlanID: yearlyID, Aliases: []string{"annual"}},
		{Slug: SlugYearly147, PlanID: yearly147ID, Aliases: []string{"yearly-$147", "annual-$147", "annual-147"}},
		{Slug: SlugMonthly, PlanID: monthlyID},
	}

	tiers := make([]Tier, 0, len(candidates))
	for _, t := range candidates {
		if t.PlanID != "" {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

type fileLayout struct {
	Plans []Tier `yaml:"plans"`
}

// LoadFile reads tiers from a YAML document shaped as:
//
//	plans:
//	  - slug: yearly
//	    plan_id: price_123
//	    aliases: [annual]
//	    success_url: https://example.com/welcome
func LoadFile(path string) ([]Tier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	return Parse(raw)
}

// Parse decodes tiers from YAML bytes in the LoadFile format.
func Parse(raw []byte) ([]Tier, error) {
	var doc fileLayout
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	if len(doc.Plans) == 0 {
		return nil, fmt.Errorf("%w: no plans defined", ErrInvalidFile)
	}
	return doc.Plans, nil
}
