package rewriter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"slidegen/internal/catalog"
	"slidegen/internal/cta"
	"slidegen/internal/logging"
	"slidegen/internal/services"
	"slidegen/internal/services/llm"
	"slidegen/internal/slideshow"
)

// DefaultMaxAttempts is the per-post call budget.
const DefaultMaxAttempts = 3

// Completer sends a system and user prompt and returns the raw JSON answer.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OutcomeKind classifies a rewrite attempt.
type OutcomeKind int

// Outcome kinds.
const (
	OutcomeOK OutcomeKind = iota
	OutcomeRetryable
	OutcomeExhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of one attempt or a whole rewrite. Attempts counts the
// calls made; Err holds the last failure when Kind is not OutcomeOK.
type Outcome struct {
	Kind     OutcomeKind
	Content  slideshow.Content
	Attempts int
	Err      error
}

// Option customizes a Rewriter.
type Option func(*Rewriter)

// WithMaxAttempts overrides the call budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(r *Rewriter) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithLogger attaches a logger for per-attempt diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rewriter) {
		r.logger = logger
	}
}

// WithLocale overrides the catalog locale in the rendered prompt.
func WithLocale(locale string) Option {
	return func(r *Rewriter) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			r.locale = trimmed
		}
	}
}

// Rewriter requests rewritten copy for skeletons built from one catalog.
type Rewriter struct {
	completer   Completer
	catalog     *catalog.Catalog
	prompt      *template.Template
	locale      string
	maxAttempts int
	logger      *slog.Logger
}

// New constructs a Rewriter. It fails when the catalog prompt cannot be
// loaded or parsed.
func New(completer Completer, cat *catalog.Catalog, opts ...Option) (*Rewriter, error) {
	if completer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "rewriter", "init", "completer is required", nil)
	}
	if cat == nil {
		return nil, services.Wrap(services.ErrConfiguration, "rewriter", "init", "catalog is required", nil)
	}
	prompt, err := loadPrompt(cat)
	if err != nil {
		return nil, err
	}
	r := &Rewriter{
		completer:   completer,
		catalog:     cat,
		prompt:      prompt,
		locale:      cat.Locale,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.logger = logging.NewComponentLogger(r.logger, "rewriter")
	return r, nil
}

// MaxAttempts reports the configured call budget.
func (r *Rewriter) MaxAttempts() int {
	return r.maxAttempts
}

// Rewrite calls Attempt until one succeeds or the budget runs out. There is no
// delay between attempts. Cancellation stops the loop and is reported as
// OutcomeExhausted carrying the context error.
func (r *Rewriter) Rewrite(ctx context.Context, skel slideshow.Skeleton) Outcome {
	logger := logging.WithContext(ctx, r.logger)
	var last error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{Kind: OutcomeExhausted, Attempts: attempt - 1, Err: err}
		}
		outcome := r.Attempt(ctx, skel)
		if outcome.Kind == OutcomeOK {
			outcome.Attempts = attempt
			if attempt > 1 {
				logger.Info("rewrite succeeded after retry", logging.Int(logging.FieldAttempt, attempt))
			}
			return outcome
		}
		last = outcome.Err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{Kind: OutcomeExhausted, Attempts: attempt, Err: ctxErr}
		}
		logging.WarnWithContext(logger, "rewrite attempt failed", "rewrite_attempt_failed",
			logging.Int(logging.FieldAttempt, attempt),
			logging.Int("max_attempts", r.maxAttempts),
			logging.Error(last),
			logging.String(logging.FieldErrorHint, "check the text service credentials and model"),
			logging.String(logging.FieldImpact, "another attempt will be made"),
		)
	}
	return Outcome{Kind: OutcomeExhausted, Attempts: r.maxAttempts, Err: last}
}

// Attempt performs a single call and validates the answer against skel.
func (r *Rewriter) Attempt(ctx context.Context, skel slideshow.Skeleton) Outcome {
	slots := skel.TextSlots()
	system, err := renderPrompt(r.prompt, r.catalog, r.locale, slots)
	if err != nil {
		return Outcome{Kind: OutcomeRetryable, Attempts: 1, Err: err}
	}
	user, err := userMessage(skel)
	if err != nil {
		return Outcome{Kind: OutcomeRetryable, Attempts: 1, Err: err}
	}

	raw, err := r.completer.CompleteJSON(ctx, system, user)
	if err != nil {
		if !errors.Is(err, services.ErrRewriteService) {
			err = services.Wrap(services.ErrRewriteService, "rewriter", "complete", "text service call failed", err)
		}
		return Outcome{Kind: OutcomeRetryable, Attempts: 1, Err: err}
	}

	content, err := r.validate(ctx, raw, skel, slots)
	if err != nil {
		return Outcome{Kind: OutcomeRetryable, Attempts: 1, Err: err}
	}
	return Outcome{Kind: OutcomeOK, Content: content, Attempts: 1}
}

type answer struct {
	Hook        string   `json:"hook"`
	Slides      []string `json:"slides"`
	CTASentence string   `json:"cta_sentence"`
	CTARepeats  any      `json:"cta_repeats"`
}

func (r *Rewriter) validate(ctx context.Context, raw string, skel slideshow.Skeleton, slots int) (slideshow.Content, error) {
	var parsed answer
	if err := llm.DecodeJSON(raw, &parsed); err != nil {
		return slideshow.Content{}, services.Wrap(services.ErrRewriteService, "rewriter", "decode", "response is not valid JSON", err)
	}
	if len(parsed.Slides) != slots {
		return slideshow.Content{}, services.Wrap(
			services.ErrRewriteService,
			"rewriter",
			"validate",
			fmt.Sprintf("expected %d slides, got %d", slots, len(parsed.Slides)),
			nil,
		)
	}

	content := slideshow.Content{
		Hook:   strings.TrimSpace(parsed.Hook),
		Slides: make([]string, slots),
	}
	if content.Hook == "" {
		content.Hook = skel.Hook.Text
	}
	placeholders := skel.Placeholders()
	for i, text := range parsed.Slides {
		text = strings.TrimSpace(text)
		if text == "" && i < len(placeholders) {
			text = placeholders[i]
		}
		content.Slides[i] = text
	}

	if set := r.catalog.CTA; set != nil && len(set.Sentences) > 0 {
		sentence, substituted := cta.Resolve(parsed.CTASentence, set.Sentences)
		if substituted {
			logging.WarnWithContext(logging.WithContext(ctx, r.logger), "cta sentence not in list", "cta_substituted",
				logging.String("received", strings.TrimSpace(parsed.CTASentence)),
				logging.String("used", sentence),
				logging.String(logging.FieldErrorHint, "tighten the prompt CTA instructions"),
				logging.String(logging.FieldImpact, "closing slide uses the first CTA sentence"),
			)
		}
		content.CTASentence = sentence
		content.CTARepeats = cta.Clamp(cta.ParseRepeats(parsed.CTARepeats, set.MinRepeats), set.MinRepeats, set.MaxRepeats)
	}
	return content, nil
}
