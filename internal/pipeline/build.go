package pipeline

import (
	"context"
	"log/slog"

	"slidegen/internal/catalog"
	"slidegen/internal/config"
	"slidegen/internal/rewriter"
	"slidegen/internal/services"
	"slidegen/internal/services/textgen"
)

// BuildRewriter wires the configured text service into a Rewriter. It returns
// nil without error when the provider is "none", and a configuration error
// when an online provider has no API key.
func BuildRewriter(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, logger *slog.Logger, opts ...textgen.Option) (*rewriter.Rewriter, error) {
	if cfg.OfflineProvider() {
		return nil, nil
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "build rewriter", "", err)
	}
	client, err := textgen.New(ctx, cfg.GetLLM(), opts...)
	if err != nil {
		return nil, err
	}
	return rewriter.New(client, cat,
		rewriter.WithMaxAttempts(cfg.Rewrite.MaxAttempts),
		rewriter.WithLocale(cfg.LLM.Locale),
		rewriter.WithLogger(logger),
	)
}
