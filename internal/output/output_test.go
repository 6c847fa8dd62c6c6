package output_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slidegen/internal/output"
	"slidegen/internal/services"
	"slidegen/internal/slideshow"
)

func samplePost() slideshow.Post {
	return slideshow.Post{
		RunID:       "run-1",
		Variant:     "lastr",
		Route:       "story",
		Source:      slideshow.SourceFallback,
		Caption:     "Stop guessing.\n\n#lastr",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Hook:        slideshow.Hook{Text: "You rushed again?", Image: "/assets/lastr/Breathing/1.jpg"},
		Slides: []slideshow.Slide{
			{CategoryID: "opener", CategoryLabel: "Breathing", EntityID: "breathing", EntityName: "Breathing", Image: "/assets/lastr/Breathing/1.jpg", OverlayText: "Slow down.\nBreathe."},
			{CategoryID: "closer", CategoryLabel: "App", EntityID: "app", EntityName: "Lastr", Image: "/assets/lastr/App/2.png", OverlayText: "Line <one> & two\n\nTry Lastr."},
		},
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "post.json")
	post := samplePost()
	if err := output.WriteJSON(context.Background(), path, post); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"variant\": \"lastr\"") {
		t.Fatalf("expected two-space indentation, got:\n%s", raw)
	}
	if !strings.Contains(string(raw), "Line <one> & two") {
		t.Fatalf("expected unescaped overlay text, got:\n%s", raw)
	}

	loaded, err := output.LoadPost(path)
	if err != nil {
		t.Fatalf("LoadPost: %v", err)
	}
	if loaded.Hook != post.Hook || len(loaded.Slides) != len(post.Slides) {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	for i := range post.Slides {
		if loaded.Slides[i] != post.Slides[i] {
			t.Fatalf("slide %d mismatch: %+v vs %+v", i, loaded.Slides[i], post.Slides[i])
		}
	}
	if !loaded.GeneratedAt.Equal(post.GeneratedAt) {
		t.Fatalf("generated_at mismatch: %v", loaded.GeneratedAt)
	}
}

func TestWriteJSONOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.json")
	first := samplePost()
	if err := output.WriteJSON(context.Background(), path, first); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	second := samplePost()
	second.Route = "tips"
	if err := output.WriteJSON(context.Background(), path, second); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	loaded, err := output.LoadPost(path)
	if err != nil {
		t.Fatalf("LoadPost: %v", err)
	}
	if loaded.Route != "tips" {
		t.Fatalf("expected overwritten route, got %q", loaded.Route)
	}
}

func TestLoadPostMissing(t *testing.T) {
	_, err := output.LoadPost(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := output.RenderHTML(&buf, samplePost()); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"<title>lastr / story</title>",
		"white-space: pre-line",
		"You rushed again?",
		"Breathing",
		"Slow down.\nBreathe.",
		"Line &lt;one&gt; &amp; two",
		"file:///assets/lastr/App/2.png",
		"1. Breathing",
		"2. App",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("preview missing %q:\n%s", want, html)
		}
	}
}

func TestWritePreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.html")
	if err := output.WritePreview(context.Background(), path, samplePost()); err != nil {
		t.Fatalf("WritePreview: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "<!DOCTYPE html>") {
		t.Fatalf("unexpected preview header: %.40s", data)
	}
}
