// Package llm provides an OpenAI-compatible chat-completions client used to
// rewrite slideshow copy.
//
// The same client serves OpenAI and OpenRouter: both accept a bearer token and
// a JSON response format. OpenRouter additionally reads the HTTP-Referer and
// X-Title attribution headers when configured.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.CompleteJSON: send system/user prompts, receive the raw JSON text.
// Client.HealthCheck: verify the API key and model answer a tiny request.
// DecodeJSON: parse model output that may be wrapped in markdown fences.
//
// # Retry Behaviour
//
// Transport retries cover HTTP 408/429/5xx and network timeouts with
// exponential backoff. The default is a single attempt because the rewriter
// owns the per-post attempt budget; raise it with WithRetryMaxAttempts for
// standalone use. Context cancellation aborts retries immediately.
package llm
