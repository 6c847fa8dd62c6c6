package services_test

import (
	"context"
	"testing"

	"slidegen/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithVariant(ctx, "betai")
	ctx = services.WithRoute(ctx, "toolkit")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if v, ok := services.VariantFromContext(ctx); !ok || v != "betai" {
		t.Fatalf("unexpected variant: %v %v", v, ok)
	}
	if r, ok := services.RouteFromContext(ctx); !ok || r != "toolkit" {
		t.Fatalf("unexpected route: %v %v", r, ok)
	}
}

func TestRouteBlankPreservesContext(t *testing.T) {
	ctx := services.WithRoute(context.Background(), "")
	if _, ok := services.RouteFromContext(ctx); ok {
		t.Fatal("expected no route value")
	}
}
