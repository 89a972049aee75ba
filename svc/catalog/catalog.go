package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Tier is one purchasable plan: a canonical slug, the billing provider plan id
// and any historical slugs that resolve to it.
type Tier struct {
	Slug        string   `yaml:"slug" json:"slug"`
	PlanID      string   `yaml:"plan_id" json:"planId"`
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	SuccessURL  string   `yaml:"success_url,omitempty" json:"successUrl,omitempty"`
	ThankYouURL string   `yaml:"thank_you_url,omitempty" json:"thankYouUrl,omitempty"`
}

// Catalog resolves plan slugs to billing provider plan ids. It is immutable
// after construction and safe for concurrent use.
type Catalog struct {
	tiers []Tier
	index map[string]int
}

// NormalizeSlug trims and lowercases slug and maps the "annual" family onto
// "yearly", so "Annual-147" becomes "yearly-147".
func NormalizeSlug(slug string) string {
	return strings.Replace(strings.ToLower(strings.TrimSpace(slug)), "annual", "yearly", 1)
}

// New builds a catalog. Every tier needs a slug and a plan id, and no slug or
// alias may resolve to two different tiers.
func New(tiers ...Tier) (*Catalog, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		tiers: make([]Tier, 0, len(tiers)),
		index: make(map[string]int),
	}
	for _, t := range tiers {
		slug := NormalizeSlug(t.Slug)
		if slug == "" {
			return nil, ErrSlugMissing
		}
		if strings.TrimSpace(t.PlanID) == "" {
			return nil, fmt.Errorf("%w: %s", ErrPlanIDMissing, slug)
		}

		pos := len(c.tiers)
		for _, key := range append([]string{slug}, t.Aliases...) {
			key = NormalizeSlug(key)
			if key == "" {
				continue
			}
			if prev, ok := c.index[key]; ok && prev != pos {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, key)
			}
			c.index[key] = pos
		}

		c.tiers = append(c.tiers, Tier{
			Slug:        slug,
			PlanID:      strings.TrimSpace(t.PlanID),
			Aliases:     slices.Clone(t.Aliases),
			SuccessURL:  t.SuccessURL,
			ThankYouURL: t.ThankYouURL,
		})
	}
	return c, nil
}

// MustNew is like New but panics on invalid configuration.
func MustNew(tiers ...Tier) *Catalog {
	c, err := New(tiers...)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve returns the provider plan id for slug.
func (c *Catalog) Resolve(slug string) (string, bool) {
	t, ok := c.Tier(slug)
	if !ok {
		return "", false
	}
	return t.PlanID, true
}

// Tier returns a copy of the tier slug resolves to.
func (c *Catalog) Tier(slug string) (Tier, bool) {
	pos, ok := c.index[NormalizeSlug(slug)]
	if !ok {
		return Tier{}, false
	}
	t := c.tiers[pos]
	t.Aliases = slices.Clone(t.Aliases)
	return t, true
}

// Slugs returns canonical slugs in declaration order.
func (c *Catalog) Slugs() []string {
	out := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = t.Slug
	}
	return out
}
