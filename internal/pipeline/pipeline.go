package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"slidegen/internal/assembler"
	"slidegen/internal/assets"
	"slidegen/internal/catalog"
	"slidegen/internal/config"
	"slidegen/internal/fallback"
	"slidegen/internal/history"
	"slidegen/internal/logging"
	"slidegen/internal/output"
	"slidegen/internal/rewriter"
	"slidegen/internal/selector"
	"slidegen/internal/services"
	"slidegen/internal/slideshow"
)

// seedStream is the second PCG word; the first is the run seed.
const seedStream = 0x9e3779b97f4a7c15

// Rewriter produces copy for a skeleton. *rewriter.Rewriter satisfies it.
type Rewriter interface {
	Rewrite(ctx context.Context, skel slideshow.Skeleton) rewriter.Outcome
}

// Recorder persists run metadata. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Request describes one generation. Blank Route picks at random; a nil Seed
// draws one. OutputPath overrides the configured destination. Offline skips
// the rewriter.
type Request struct {
	RunID       string
	Route       string
	Seed        *uint64
	Offline     bool
	OutputPath  string
	SkipPreview bool
}

// Result reports what a run produced. RewriteErr holds the last rewrite
// failure when Source is the fallback after a failed rewrite.
type Result struct {
	RunID       string
	Seed        uint64
	Post        slideshow.Post
	Source      string
	Attempts    int
	OutputPath  string
	PreviewPath string
	RewriteErr  error
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRewriter enables online copy rewriting.
func WithRewriter(r Rewriter) Option {
	return func(g *Generator) {
		g.rewriter = r
	}
}

// WithHistory records each run.
func WithHistory(r Recorder) Option {
	return func(g *Generator) {
		g.history = r
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator builds posts for one catalog.
type Generator struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	rewriter Rewriter
	history  Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs a Generator.
func New(cfg *config.Config, cat *catalog.Catalog, opts ...Option) (*Generator, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "config is required", nil)
	}
	if cat == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "catalog is required", nil)
	}
	g := &Generator{cfg: cfg, catalog: cat, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.logger = logging.NewComponentLogger(g.logger, "pipeline")
	return g, nil
}

// Run executes one generation.
func (g *Generator) Run(ctx context.Context, req Request) (Result, error) {
	runID := strings.TrimSpace(req.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewPCG(seed, seedStream))

	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithVariant(ctx, g.catalog.ID)

	outputPath := g.cfg.OutputPath()
	if path := strings.TrimSpace(req.OutputPath); path != "" {
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			err := services.Wrap(services.ErrConfiguration, "pipeline", "run", fmt.Sprintf("output path %s must end in .json", path), nil)
			return Result{}, g.abort(logging.WithContext(ctx, g.logger), "output", err)
		}
		outputPath = path
	}

	route, err := selector.FindRoute(rng, g.catalog, req.Route)
	if err != nil {
		return Result{}, g.abort(logging.WithContext(ctx, g.logger), "route", err)
	}
	ctx = services.WithRoute(ctx, route.ID)
	logger := logging.WithContext(ctx, g.logger)
	logger.Info("generation started", logging.Uint64("seed", seed), logging.Bool("offline", req.Offline || g.rewriter == nil))

	categories, err := selector.SelectCategories(rng, g.catalog, route)
	if err != nil {
		return Result{}, g.abort(logger, "categories", err)
	}
	skel, err := assembler.BuildSkeleton(assembler.Inputs{
		Rand:      rng,
		Picker:    assets.NewPicker(rng),
		Catalog:   g.catalog,
		Route:     route,
		AssetsDir: g.cfg.Paths.AssetsDir,
	}, categories)
	if err != nil {
		return Result{}, g.abort(logger, "skeleton", err)
	}
	logger.Debug("skeleton built", logging.Int("slides", len(skel.Slides)), logging.Int("text_slots", skel.TextSlots()))

	result := Result{RunID: runID, Seed: seed}
	content, err := g.content(ctx, logger, req, route, skel, &result)
	if err != nil {
		return Result{}, g.abort(logger, "rewrite", err)
	}

	post := slideshow.Assemble(slideshow.Meta{
		RunID:       runID,
		Source:      result.Source,
		Caption:     pickCaption(rng, g.catalog),
		GeneratedAt: g.now(),
	}, skel, content, g.catalog)
	result.Post = post

	result.OutputPath = outputPath
	if err := output.WriteJSON(ctx, result.OutputPath, post); err != nil {
		return Result{}, g.abort(logger, "write", err)
	}
	if g.cfg.Generation.WritePreview && !req.SkipPreview {
		result.PreviewPath = previewPathFor(result.OutputPath)
		if err := output.WritePreview(ctx, result.PreviewPath, post); err != nil {
			logging.WarnWithContext(logger, "preview write failed", "preview_write_failed",
				logging.String("path", result.PreviewPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check output directory permissions"),
				logging.String(logging.FieldImpact, "post written without HTML preview"),
			)
			result.PreviewPath = ""
		}
	}

	g.record(ctx, logger, result)
	logger.Info("generation finished",
		logging.String("source", result.Source),
		logging.Int("attempts", result.Attempts),
		logging.String("output", result.OutputPath),
	)
	return result, nil
}

func (g *Generator) content(ctx context.Context, logger *slog.Logger, req Request, route catalog.Route, skel slideshow.Skeleton, result *Result) (slideshow.Content, error) {
	if req.Offline || g.rewriter == nil {
		result.Source = slideshow.SourceFallback
		return fallback.Compose(g.catalog, route, skel), nil
	}

	outcome := g.rewriter.Rewrite(ctx, skel)
	result.Attempts = outcome.Attempts
	if outcome.Kind == rewriter.OutcomeOK {
		result.Source = slideshow.SourceRewrite
		return outcome.Content, nil
	}
	if errors.Is(outcome.Err, context.Canceled) || errors.Is(outcome.Err, context.DeadlineExceeded) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return slideshow.Content{}, ctxErr
		}
	}

	result.Source = slideshow.SourceFallback
	result.RewriteErr = outcome.Err
	logging.WarnWithContext(logger, "rewrite exhausted; using fallback copy", "rewrite_fallback",
		logging.Int("attempts", outcome.Attempts),
		logging.Error(outcome.Err),
		logging.String(logging.FieldErrorHint, "check text service credentials or run with --offline"),
		logging.String(logging.FieldImpact, "post uses catalog fallback copy"),
	)
	return fallback.Compose(g.catalog, route, skel), nil
}

func (g *Generator) record(ctx context.Context, logger *slog.Logger, result Result) {
	if g.history == nil || !g.cfg.Generation.RecordHistory {
		return
	}
	encoded, err := json.Marshal(result.Post)
	if err != nil {
		logger.Warn("history encode failed", logging.Error(err))
		return
	}
	seed := result.Seed
	run := history.Run{
		RunID:       result.RunID,
		Variant:     result.Post.Variant,
		Route:       result.Post.Route,
		Source:      result.Source,
		Attempts:    result.Attempts,
		Seed:        &seed,
		OutputPath:  result.OutputPath,
		PreviewPath: result.PreviewPath,
		HookText:    result.Post.Hook.Text,
		SlideCount:  len(result.Post.Slides),
		CreatedAt:   result.Post.GeneratedAt,
		PostJSON:    string(encoded),
	}
	if err := g.history.Record(ctx, run); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the history database path"),
			logging.String(logging.FieldImpact, "run missing from slidegen history"),
		)
	}
}

// abort logs a failed run with its error taxonomy and returns err unchanged.
// Cancellation is not logged.
func (g *Generator) abort(logger *slog.Logger, stage string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	logging.ErrorWithContext(logger, "generation aborted", "generation_aborted",
		logging.String("stage", stage),
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, abortHint(err)),
		logging.String(logging.FieldImpact, "no post written"),
	)
	return err
}

func abortHint(err error) string {
	switch {
	case errors.Is(err, services.ErrAssetMissing):
		return "run slidegen catalog verify and populate the reported folders"
	case errors.Is(err, services.ErrPlacement):
		return "check catalog placement rules against category entities"
	case errors.Is(err, services.ErrConfiguration):
		return "check the configuration and catalog with slidegen config validate"
	default:
		return "see the error detail"
	}
}

func pickCaption(rng *rand.Rand, cat *catalog.Catalog) string {
	if len(cat.Captions) == 0 {
		return ""
	}
	return cat.Captions[rng.IntN(len(cat.Captions))]
}

func previewPathFor(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".html"
}
