package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slidegen/internal/catalog"
	"slidegen/internal/config"
	"slidegen/internal/history"
	"slidegen/internal/logging"
	"slidegen/internal/output"
	"slidegen/internal/pipeline"
	"slidegen/internal/rewriter"
	"slidegen/internal/services"
	"slidegen/internal/slideshow"
)

type scriptedCompleter struct {
	response string
	err      error
	calls    int
}

func (s *scriptedCompleter) CompleteJSON(context.Context, string, string) (string, error) {
	s.calls++
	return s.response, s.err
}

type memoryRecorder struct {
	runs []history.Run
	err  error
}

func (m *memoryRecorder) Record(_ context.Context, run history.Run) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func mustCatalog(t *testing.T, id string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Builtin(id)
	if err != nil {
		t.Fatalf("Builtin(%s): %v", id, err)
	}
	return cat
}

func seedAssets(t *testing.T, cat *catalog.Catalog, root string) {
	t.Helper()
	dirs := []string{}
	for _, id := range cat.SelectableEntities() {
		dirs = append(dirs, cat.EntityDir(root, id))
	}
	if hook := cat.HookDir(root); hook != "" {
		dirs = append(dirs, hook)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		for _, name := range []string{"1.jpg", "2.png"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		}
	}
}

func testConfig(t *testing.T, cat *catalog.Catalog) *config.Config {
	t.Helper()
	cfg := config.Default()
	root := t.TempDir()
	cfg.Paths.AssetsDir = filepath.Join(root, "assets")
	cfg.Paths.OutputDir = filepath.Join(root, "output")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Generation.Variant = cat.ID
	seedAssets(t, cat, cfg.Paths.AssetsDir)
	return &cfg
}

func seed(v uint64) *uint64 { return &v }

func fixedClock() time.Time {
	return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
}

func TestRunOfflineWritesPostAndPreview(t *testing.T) {
	cat := mustCatalog(t, "betai")
	cfg := testConfig(t, cat)
	recorder := &memoryRecorder{}
	gen, err := pipeline.New(cfg, cat, pipeline.WithHistory(recorder), pipeline.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := gen.Run(context.Background(), pipeline.Request{Offline: true, Seed: seed(7)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Source != slideshow.SourceFallback || result.Attempts != 0 {
		t.Fatalf("unexpected source/attempts: %s/%d", result.Source, result.Attempts)
	}
	if result.OutputPath != cfg.OutputPath() {
		t.Fatalf("unexpected output path %s", result.OutputPath)
	}
	if !strings.HasSuffix(result.PreviewPath, "output.html") {
		t.Fatalf("unexpected preview path %s", result.PreviewPath)
	}

	post, err := output.LoadPost(result.OutputPath)
	if err != nil {
		t.Fatalf("LoadPost: %v", err)
	}
	if post.RunID != result.RunID || post.Variant != "betai" || post.Route != "toolkit" {
		t.Fatalf("unexpected post header: %+v", post)
	}
	if len(post.Slides) != 5 {
		t.Fatalf("expected 5 slides, got %d", len(post.Slides))
	}
	designated := 0
	for _, slide := range post.Slides {
		if slide.EntityID == "betai" {
			designated++
		}
		if strings.TrimSpace(slide.OverlayText) == "" {
			t.Fatalf("blank overlay on %+v", slide)
		}
		if _, err := os.Stat(slide.Image); err != nil {
			t.Fatalf("image missing: %v", err)
		}
	}
	if designated != 1 {
		t.Fatalf("expected designated entity once, got %d", designated)
	}
	if post.Caption == "" {
		t.Fatal("expected a caption")
	}
	if _, err := os.Stat(result.PreviewPath); err != nil {
		t.Fatalf("preview missing: %v", err)
	}

	if len(recorder.runs) != 1 {
		t.Fatalf("expected one history record, got %d", len(recorder.runs))
	}
	run := recorder.runs[0]
	if run.RunID != result.RunID || run.Seed == nil || *run.Seed != 7 || run.SlideCount != 5 {
		t.Fatalf("unexpected history run: %+v", run)
	}
	var stored slideshow.Post
	if err := json.Unmarshal([]byte(run.PostJSON), &stored); err != nil {
		t.Fatalf("stored post JSON: %v", err)
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	cat := mustCatalog(t, "betai")
	cfg := testConfig(t, cat)
	gen, err := pipeline.New(cfg, cat, pipeline.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first, err := gen.Run(context.Background(), pipeline.Request{Offline: true, Seed: seed(99), SkipPreview: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := gen.Run(context.Background(), pipeline.Request{Offline: true, Seed: seed(99), SkipPreview: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if first.RunID == second.RunID {
		t.Fatal("expected distinct run ids")
	}
	if first.Post.Hook != second.Post.Hook || first.Post.Caption != second.Post.Caption {
		t.Fatal("expected identical hook and caption for the same seed")
	}
	for i := range first.Post.Slides {
		if first.Post.Slides[i] != second.Post.Slides[i] {
			t.Fatalf("slide %d differs for same seed", i)
		}
	}
}

func TestRunFallsBackAfterMismatchedRewrite(t *testing.T) {
	cat := mustCatalog(t, "lastr")
	cfg := testConfig(t, cat)
	completer := &scriptedCompleter{response: `{"hook":"h","slides":["a","b","c","d"],"cta_sentence":"x","cta_repeats":9}`}
	rw, err := rewriter.New(completer, cat)
	if err != nil {
		t.Fatalf("rewriter.New: %v", err)
	}
	gen, err := pipeline.New(cfg, cat, pipeline.WithRewriter(rw))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := gen.Run(context.Background(), pipeline.Request{Route: "story", Seed: seed(3), SkipPreview: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if completer.calls != rewriter.DefaultMaxAttempts {
		t.Fatalf("expected %d calls, got %d", rewriter.DefaultMaxAttempts, completer.calls)
	}
	if result.Source != slideshow.SourceFallback || result.Attempts != rewriter.DefaultMaxAttempts {
		t.Fatalf("unexpected source/attempts: %s/%d", result.Source, result.Attempts)
	}
	if !errors.Is(result.RewriteErr, services.ErrRewriteService) {
		t.Fatalf("expected rewrite error, got %v", result.RewriteErr)
	}

	post := result.Post
	if len(post.Slides) != 6 || post.Route != "story" {
		t.Fatalf("unexpected post shape: route=%s slides=%d", post.Route, len(post.Slides))
	}
	for i, slide := range post.Slides[:5] {
		if strings.TrimSpace(slide.OverlayText) == "" {
			t.Fatalf("slide %d has blank text", i)
		}
	}
	story, _ := cat.Route("story")
	if post.Hook.Text != story.FallbackHook {
		t.Fatalf("expected fallback hook %q, got %q", story.FallbackHook, post.Hook.Text)
	}
	closing := post.Slides[5].OverlayText
	lines := strings.Split(closing, "\n")
	if lines[0] != cat.CTA.Sentences[0] || !strings.HasSuffix(closing, "\n\n"+cat.CTA.Closing) {
		t.Fatalf("unexpected CTA block %q", closing)
	}
	if post.Hook.Image != post.Slides[0].Image {
		t.Fatalf("expected hook image to reuse first slide image")
	}
}

func TestRunUsesRewrittenCopy(t *testing.T) {
	cat := mustCatalog(t, "lastr")
	cfg := testConfig(t, cat)
	completer := &scriptedCompleter{response: `{"hook":"Fresh hook","slides":["s1","s2","s3","s4","s5"],"cta_sentence":"` + cat.CTA.Sentences[3] + `","cta_repeats":8}`}
	rw, err := rewriter.New(completer, cat)
	if err != nil {
		t.Fatalf("rewriter.New: %v", err)
	}
	gen, err := pipeline.New(cfg, cat, pipeline.WithRewriter(rw))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := gen.Run(context.Background(), pipeline.Request{Seed: seed(11), SkipPreview: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Source != slideshow.SourceRewrite || result.Attempts != 1 {
		t.Fatalf("unexpected source/attempts: %s/%d", result.Source, result.Attempts)
	}
	if result.Post.Hook.Text != "Fresh hook" || result.Post.Slides[4].OverlayText != "s5" {
		t.Fatalf("rewritten copy not applied: %+v", result.Post)
	}
	if got := strings.Count(result.Post.Slides[5].OverlayText, cat.CTA.Sentences[3]); got != 8 {
		t.Fatalf("expected 8 CTA repeats, got %d", got)
	}
}

func TestRunAbortsOnMissingAssets(t *testing.T) {
	cat := mustCatalog(t, "betai")
	cfg := testConfig(t, cat)
	cfg.Paths.AssetsDir = t.TempDir()
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &logs})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	gen, err := pipeline.New(cfg, cat, pipeline.WithLogger(logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = gen.Run(context.Background(), pipeline.Request{Offline: true, Seed: seed(1)})
	if !errors.Is(err, services.ErrAssetMissing) {
		t.Fatalf("expected asset missing, got %v", err)
	}
	for _, want := range []string{`"event_type":"generation_aborted"`, `"error_kind":"asset_missing"`, `"stage":"skeleton"`} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("expected %s in logs:\n%s", want, logs.String())
		}
	}
	if services.ExitCode(err) != 3 {
		t.Fatalf("expected exit code 3, got %d", services.ExitCode(err))
	}
	if _, statErr := os.Stat(cfg.OutputPath()); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file, stat err=%v", statErr)
	}
}

func TestRunRejectsNonJSONOutputPath(t *testing.T) {
	cat := mustCatalog(t, "betai")
	cfg := testConfig(t, cat)
	gen, err := pipeline.New(cfg, cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	target := filepath.Join(t.TempDir(), "post.html")
	_, err = gen.Run(context.Background(), pipeline.Request{Offline: true, Seed: seed(2), OutputPath: target})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Fatalf("expected nothing at %s, stat err=%v", target, statErr)
	}
}

func TestRunRecordsDrawnSeed(t *testing.T) {
	cat := mustCatalog(t, "betai")
	recorder := &memoryRecorder{}
	gen, err := pipeline.New(testConfig(t, cat), cat, pipeline.WithHistory(recorder))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := gen.Run(context.Background(), pipeline.Request{Offline: true, SkipPreview: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(recorder.runs) != 1 {
		t.Fatalf("expected one history record, got %d", len(recorder.runs))
	}
	if got := recorder.runs[0].Seed; got == nil || *got != result.Seed {
		t.Fatalf("expected recorded seed %d, got %v", result.Seed, got)
	}
}

func TestRunRejectsUnknownRoute(t *testing.T) {
	cat := mustCatalog(t, "lastr")
	gen, err := pipeline.New(testConfig(t, cat), cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = gen.Run(context.Background(), pipeline.Request{Route: "nope", Offline: true})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunHistoryFailureIsNotFatal(t *testing.T) {
	cat := mustCatalog(t, "betai")
	cfg := testConfig(t, cat)
	gen, err := pipeline.New(cfg, cat, pipeline.WithHistory(&memoryRecorder{err: errors.New("disk full")}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := gen.Run(context.Background(), pipeline.Request{Offline: true, SkipPreview: true}); err != nil {
		t.Fatalf("expected history failure to be ignored, got %v", err)
	}
}

func TestRunCancelledDuringRewrite(t *testing.T) {
	cat := mustCatalog(t, "lastr")
	cfg := testConfig(t, cat)
	ctx, cancel := context.WithCancel(context.Background())
	completer := &cancellingCompleter{cancel: cancel}
	rw, err := rewriter.New(completer, cat)
	if err != nil {
		t.Fatalf("rewriter.New: %v", err)
	}
	gen, err := pipeline.New(cfg, cat, pipeline.WithRewriter(rw))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = gen.Run(ctx, pipeline.Request{Seed: seed(5), SkipPreview: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(cfg.OutputPath()); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output on cancellation, stat err=%v", statErr)
	}
}

type cancellingCompleter struct {
	cancel context.CancelFunc
}

func (c *cancellingCompleter) CompleteJSON(ctx context.Context, _, _ string) (string, error) {
	c.cancel()
	return "", ctx.Err()
}

func TestBuildRewriterOffline(t *testing.T) {
	cat := mustCatalog(t, "betai")
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderNone
	rw, err := pipeline.BuildRewriter(context.Background(), &cfg, cat, nil)
	if err != nil || rw != nil {
		t.Fatalf("expected nil rewriter for provider none, got %v, %v", rw, err)
	}
}

func TestBuildRewriterRequiresKeyOnline(t *testing.T) {
	cat := mustCatalog(t, "betai")
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderOpenAI
	cfg.LLM.APIKey = ""
	_, err := pipeline.BuildRewriter(context.Background(), &cfg, cat, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
