// Package catalog composes search, region and language filters over an
// in-memory country catalog and pages through the result.
//
// Everything here is pure: the same catalog and arguments always produce the
// same output, and the input slice is never modified.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mrlokans/atlas/internal/entities"
)

// Apply filters catalog by the non-empty predicates (AND semantics), keeps
// catalog order and truncates to the first visible elements.
func Apply(catalog []entities.Country, search, region, language string, visible int) []entities.Country {
	filtered := Filter(catalog, search, region, language)
	if visible < 0 {
		visible = 0
	}
	if visible < len(filtered) {
		filtered = filtered[:visible]
	}
	return filtered
}

// Filter is Apply without truncation.
func Filter(catalog []entities.Country, search, region, language string) []entities.Country {
	// Casers are stateful, so each call gets its own.
	folder := cases.Fold()
	needle := ""
	if search != "" {
		needle = folder.String(search)
	}

	result := make([]entities.Country, 0, len(catalog))
	for _, country := range catalog {
		if needle != "" && !strings.Contains(folder.String(country.CommonName), needle) {
			continue
		}
		if region != "" && country.Region != region {
			continue
		}
		if language != "" && !country.HasLanguage(language) {
			continue
		}
		result = append(result, country)
	}
	return result
}

// DistinctRegions returns the sorted set of regions present in the catalog.
func DistinctRegions(catalog []entities.Country) []string {
	seen := make(map[string]struct{})
	for _, country := range catalog {
		if country.Region == "" {
			continue
		}
		seen[country.Region] = struct{}{}
	}
	return sortedSet(seen)
}

// DistinctLanguages returns the sorted set of language display names across
// every country's language mapping.
func DistinctLanguages(catalog []entities.Country) []string {
	seen := make(map[string]struct{})
	for _, country := range catalog {
		for _, lang := range country.Languages {
			seen[lang] = struct{}{}
		}
	}
	return sortedSet(seen)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
