package selector_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"slidegen/internal/catalog"
	"slidegen/internal/selector"
	"slidegen/internal/services"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestFixedSequenceReturnedVerbatim(t *testing.T) {
	cat, err := catalog.Builtin("lastr")
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	for _, routeID := range cat.RouteIDs() {
		route, _ := cat.Route(routeID)
		for seed := uint64(0); seed < 50; seed++ {
			got, err := selector.SelectCategories(newRand(seed), cat, route)
			if err != nil {
				t.Fatalf("SelectCategories: %v", err)
			}
			if len(got) != len(route.Sequence) {
				t.Fatalf("length mismatch: %d vs %d", len(got), len(route.Sequence))
			}
			for i, key := range route.Sequence {
				if got[i].ID != key {
					t.Fatalf("seed %d slot %d: got %q want %q", seed, i, got[i].ID, key)
				}
			}
		}
	}
}

func TestSampledRouteDrawsDistinctCategories(t *testing.T) {
	cat, err := catalog.Builtin("betai")
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	route, _ := cat.Route("toolkit")
	for seed := uint64(0); seed < 100; seed++ {
		got, err := selector.SelectCategories(newRand(seed), cat, route)
		if err != nil {
			t.Fatalf("SelectCategories: %v", err)
		}
		if len(got) != 5 {
			t.Fatalf("expected 5 categories, got %d", len(got))
		}
		seen := map[string]bool{}
		for _, c := range got {
			if seen[c.ID] {
				t.Fatalf("seed %d: duplicate category %q", seed, c.ID)
			}
			seen[c.ID] = true
		}
	}
}

func TestSampledRouteIsDeterministicForSeed(t *testing.T) {
	cat, _ := catalog.Builtin("betai")
	route, _ := cat.Route("toolkit")
	a, _ := selector.SelectCategories(newRand(7), cat, route)
	b, _ := selector.SelectCategories(newRand(7), cat, route)
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different draws: %v vs %v", a, b)
		}
	}
}

func TestSampleLargerThanCategoriesFails(t *testing.T) {
	cat, _ := catalog.Builtin("betai")
	route := catalog.Route{ID: "greedy", SampleSize: 7}
	_, err := selector.SelectCategories(newRand(1), cat, route)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestUnknownSequenceKeyFails(t *testing.T) {
	cat, _ := catalog.Builtin("lastr")
	route := catalog.Route{ID: "broken", Sequence: []string{"opener", "missing"}}
	_, err := selector.SelectCategories(newRand(1), cat, route)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestChooseRouteCoversAllRoutes(t *testing.T) {
	cat, _ := catalog.Builtin("lastr")
	rng := newRand(3)
	seen := map[string]bool{}
	for range 200 {
		route, err := selector.ChooseRoute(rng, cat)
		if err != nil {
			t.Fatalf("ChooseRoute: %v", err)
		}
		seen[route.ID] = true
	}
	if !seen["tips"] || !seen["story"] {
		t.Fatalf("expected both routes to be drawn, got %v", seen)
	}
}

func TestChooseRouteWithoutRoutes(t *testing.T) {
	_, err := selector.ChooseRoute(newRand(1), &catalog.Catalog{})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestFindRoute(t *testing.T) {
	cat, _ := catalog.Builtin("lastr")
	route, err := selector.FindRoute(newRand(1), cat, "story")
	if err != nil || route.ID != "story" {
		t.Fatalf("FindRoute(story) = %+v, %v", route, err)
	}
	if _, err := selector.FindRoute(newRand(1), cat, "myth"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown route, got %v", err)
	}
	if route, err := selector.FindRoute(newRand(1), cat, ""); err != nil || route.ID == "" {
		t.Fatalf("blank id should draw a route, got %+v, %v", route, err)
	}
}
