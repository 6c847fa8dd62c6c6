// Package fallback composes deterministic offline copy when the rewrite
// service is unavailable.
package fallback

import (
	"strings"

	"slidegen/internal/catalog"
	"slidegen/internal/slideshow"
)

// Compose returns fixed copy for skel. It performs no I/O and always succeeds:
// the hook is the route fallback hook (or the skeleton placeholder), the
// lines are the route fallback lines when they cover every text slot (or the
// skeleton baselines), and the call to action is the first sentence at the
// minimum repeat count.
func Compose(cat *catalog.Catalog, route catalog.Route, skel slideshow.Skeleton) slideshow.Content {
	content := slideshow.Content{Hook: skel.Hook.Text}
	if hook := strings.TrimSpace(route.FallbackHook); hook != "" {
		content.Hook = hook
	}

	slots := skel.TextSlots()
	if len(route.FallbackLines) == slots && slots > 0 {
		content.Slides = append([]string(nil), route.FallbackLines...)
	} else {
		content.Slides = skel.Placeholders()
	}

	if cat != nil && cat.CTA != nil && len(cat.CTA.Sentences) > 0 {
		content.CTASentence = cat.CTA.Sentences[0]
		content.CTARepeats = cat.CTA.MinRepeats
	}
	return content
}
