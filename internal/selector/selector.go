// Package selector chooses the route and its ordered category sequence for a
// slideshow run.
package selector

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"slidegen/internal/catalog"
	"slidegen/internal/services"
)

// ChooseRoute draws one route uniformly among the catalog's routes.
func ChooseRoute(rng *rand.Rand, cat *catalog.Catalog) (catalog.Route, error) {
	if cat == nil || len(cat.Routes) == 0 {
		return catalog.Route{}, services.Wrap(services.ErrConfiguration, "selector", "choose route", "catalog defines no routes", nil)
	}
	return cat.Routes[rng.IntN(len(cat.Routes))], nil
}

// FindRoute returns the named route, or a random one when id is blank.
func FindRoute(rng *rand.Rand, cat *catalog.Catalog, id string) (catalog.Route, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ChooseRoute(rng, cat)
	}
	if cat != nil {
		if route, ok := cat.Route(id); ok {
			return route, nil
		}
	}
	var known []string
	if cat != nil {
		known = cat.RouteIDs()
	}
	return catalog.Route{}, services.Wrap(services.ErrConfiguration, "selector", "find route",
		fmt.Sprintf("unknown route %q (available: %s)", id, strings.Join(known, ", ")), nil)
}

// SelectCategories returns the route's categories in slide order. Fixed
// sequences come back verbatim; sampling routes draw SampleSize distinct
// categories without replacement.
func SelectCategories(rng *rand.Rand, cat *catalog.Catalog, route catalog.Route) ([]catalog.Category, error) {
	if cat == nil {
		return nil, services.Wrap(services.ErrConfiguration, "selector", "select categories", "catalog is nil", nil)
	}

	if len(route.Sequence) > 0 {
		out := make([]catalog.Category, 0, len(route.Sequence))
		for _, key := range route.Sequence {
			category, ok := cat.Category(key)
			if !ok {
				return nil, services.Wrap(services.ErrConfiguration, "selector", "select categories",
					fmt.Sprintf("route %q references unknown category %q", route.ID, key), nil)
			}
			out = append(out, category)
		}
		return out, nil
	}

	n := route.SampleSize
	if n <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "selector", "select categories",
			fmt.Sprintf("route %q has neither a sequence nor a sample size", route.ID), nil)
	}
	if n > len(cat.Categories) {
		return nil, services.Wrap(services.ErrConfiguration, "selector", "select categories",
			fmt.Sprintf("route %q requests %d categories but only %d are configured", route.ID, n, len(cat.Categories)), nil)
	}

	order := rng.Perm(len(cat.Categories))
	out := make([]catalog.Category, 0, n)
	for _, idx := range order[:n] {
		out = append(out, cat.Categories[idx])
	}
	return out, nil
}
