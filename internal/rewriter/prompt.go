package rewriter

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"slidegen/internal/catalog"
	"slidegen/internal/services"
	"slidegen/internal/slideshow"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

type promptData struct {
	Locale     string
	SlideCount int
	Slots      []int
	CTAList    string
	CTAMin     int
	CTAMax     int
	CTAClosing string
}

func loadPrompt(cat *catalog.Catalog) (*template.Template, error) {
	if text := strings.TrimSpace(cat.PromptTemplate); text != "" {
		tmpl, err := template.New("custom").Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "rewriter", "load prompt", "parse custom prompt", err)
		}
		return tmpl, nil
	}
	name := strings.TrimSpace(cat.Prompt)
	data, err := promptFS.ReadFile("prompts/" + name + ".tmpl")
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "rewriter", "load prompt", fmt.Sprintf("unknown prompt %q", name), err)
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "rewriter", "load prompt", name, err)
	}
	return tmpl, nil
}

func renderPrompt(tmpl *template.Template, cat *catalog.Catalog, locale string, slots int) (string, error) {
	data := promptData{
		Locale:     strings.ToUpper(locale),
		SlideCount: slots,
		Slots:      make([]int, slots),
	}
	for i := range data.Slots {
		data.Slots[i] = i + 1
	}
	if cat.CTA != nil {
		list, err := json.MarshalIndent(cat.CTA.Sentences, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode cta list: %w", err)
		}
		data.CTAList = string(list)
		data.CTAMin = cat.CTA.MinRepeats
		data.CTAMax = cat.CTA.MaxRepeats
		data.CTAClosing = cat.CTA.Closing
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "rewriter", "render prompt", tmpl.Name(), err)
	}
	return buf.String(), nil
}

type skeletonPayload struct {
	Variant string         `json:"variant"`
	Route   string         `json:"route"`
	Hook    hookPayload    `json:"hook"`
	Slides  []slidePayload `json:"slides"`
}

type hookPayload struct {
	Text string `json:"text"`
}

type slidePayload struct {
	CategoryID    string `json:"category_id"`
	CategoryLabel string `json:"category_label,omitempty"`
	EntityName    string `json:"entity_name"`
	OverlayText   string `json:"overlay_text"`
}

// userMessage serializes the text slots of skel. CTA slides are omitted.
func userMessage(skel slideshow.Skeleton) (string, error) {
	payload := skeletonPayload{
		Variant: skel.Variant,
		Route:   skel.Route,
		Hook:    hookPayload{Text: skel.Hook.Text},
		Slides:  make([]slidePayload, 0, len(skel.Slides)),
	}
	for _, slide := range skel.Slides {
		if slide.CTA {
			continue
		}
		payload.Slides = append(payload.Slides, slidePayload{
			CategoryID:    slide.CategoryID,
			CategoryLabel: slide.CategoryLabel,
			EntityName:    slide.EntityName,
			OverlayText:   slide.OverlayText,
		})
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode skeleton: %w", err)
	}
	return string(encoded), nil
}
