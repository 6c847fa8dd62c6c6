// Package rewriter turns a slideshow skeleton into rewritten copy by asking a
// text service for strict JSON and validating the answer.
//
// A Rewriter makes up to MaxAttempts calls per post with no backoff between
// them. Each call yields an Outcome: OutcomeOK carries validated Content,
// OutcomeRetryable marks a transport failure or a malformed/short answer, and
// OutcomeExhausted is returned from Rewrite once the budget is spent or the
// context is cancelled. Callers fall back to deterministic copy on exhaustion.
//
// CTA answers are normalized before they leave the package: a sentence outside
// the catalog list becomes the first entry and the repeat count is clamped to
// the catalog bounds.
package rewriter
