// Package slideshow defines the slide, skeleton, and post records and merges
// rewritten copy back onto assembled slides.
//
// Post records serialize to the JSON output schema consumed by previews and
// downstream publishing. Encoding preserves slide order, image paths, and
// overlay text exactly.
package slideshow
