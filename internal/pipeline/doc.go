// Package pipeline runs one slideshow generation end to end.
//
// Generator.Run chooses a route, selects and fills slides, asks the rewriter
// for copy (falling back to deterministic catalog copy when it is disabled or
// exhausted), assembles the final post, writes it to disk, and records the run
// in history. Configuration, placement, and asset errors abort the run before
// anything is written; rewrite failures never do.
package pipeline
