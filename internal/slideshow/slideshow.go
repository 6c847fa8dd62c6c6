package slideshow

import (
	"strings"
	"time"

	"slidegen/internal/catalog"
	"slidegen/internal/cta"
)

// Post sources.
const (
	SourceRewrite  = "rewrite"
	SourceFallback = "fallback"
)

// Slide is one carousel frame bound to a category, an entity, and an image.
// CTA slides receive the rendered call-to-action block instead of copy.
type Slide struct {
	CategoryID    string `json:"category_id"`
	CategoryLabel string `json:"category_label,omitempty"`
	EntityID      string `json:"entity_id"`
	EntityName    string `json:"entity_name"`
	Image         string `json:"image"`
	OverlayText   string `json:"overlay_text"`
	CTA           bool   `json:"-"`
}

// Hook is the opening frame.
type Hook struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// Skeleton is the pre-rewrite structure with placeholder texts.
type Skeleton struct {
	Variant string
	Route   string
	Hook    Hook
	Slides  []Slide
}

// TextSlots returns how many slides expect rewritten copy.
func (s Skeleton) TextSlots() int {
	n := 0
	for _, slide := range s.Slides {
		if !slide.CTA {
			n++
		}
	}
	return n
}

// Placeholders returns the baseline texts of the non-CTA slides in order.
func (s Skeleton) Placeholders() []string {
	out := make([]string, 0, len(s.Slides))
	for _, slide := range s.Slides {
		if !slide.CTA {
			out = append(out, slide.OverlayText)
		}
	}
	return out
}

// Content is the rewritten (or fallback) copy for a skeleton. Slides holds one
// text per text slot.
type Content struct {
	Hook        string
	Slides      []string
	CTASentence string
	CTARepeats  int
}

// Post is the final deliverable record.
type Post struct {
	RunID       string    `json:"run_id,omitempty"`
	Variant     string    `json:"variant"`
	Route       string    `json:"route"`
	Source      string    `json:"source"`
	Caption     string    `json:"caption,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Hook        Hook      `json:"hook"`
	Slides      []Slide   `json:"slides"`
}

// Meta carries run metadata stamped onto an assembled post.
type Meta struct {
	RunID       string
	Source      string
	Caption     string
	GeneratedAt time.Time
}

// Assemble merges content onto the skeleton by position. Missing or blank
// texts keep the slide's placeholder. CTA slides receive the rendered block
// when cat defines one. Assemble never fails.
func Assemble(meta Meta, skel Skeleton, content Content, cat *catalog.Catalog) Post {
	post := Post{
		RunID:       meta.RunID,
		Variant:     skel.Variant,
		Route:       skel.Route,
		Source:      meta.Source,
		Caption:     meta.Caption,
		GeneratedAt: meta.GeneratedAt.UTC(),
		Hook:        skel.Hook,
		Slides:      make([]Slide, 0, len(skel.Slides)),
	}
	if text := strings.TrimSpace(content.Hook); text != "" {
		post.Hook.Text = text
	}

	slot := 0
	for _, slide := range skel.Slides {
		merged := slide
		if slide.CTA {
			if block, ok := renderCTA(content, cat); ok {
				merged.OverlayText = block
			}
			post.Slides = append(post.Slides, merged)
			continue
		}
		if slot < len(content.Slides) {
			if text := strings.TrimSpace(content.Slides[slot]); text != "" {
				merged.OverlayText = text
			}
		}
		slot++
		post.Slides = append(post.Slides, merged)
	}
	return post
}

func renderCTA(content Content, cat *catalog.Catalog) (string, bool) {
	if cat == nil || cat.CTA == nil || len(cat.CTA.Sentences) == 0 {
		return "", false
	}
	sentence, _ := cta.Resolve(content.CTASentence, cat.CTA.Sentences)
	repeats := cta.Clamp(content.CTARepeats, cat.CTA.MinRepeats, cat.CTA.MaxRepeats)
	return cta.Render(sentence, repeats, cat.CTA.Closing), true
}
