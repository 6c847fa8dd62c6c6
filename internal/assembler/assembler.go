// Package assembler places entities onto selected categories, binds slide
// images, and builds the pre-rewrite skeleton.
package assembler

import (
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"slidegen/internal/assets"
	"slidegen/internal/catalog"
	"slidegen/internal/services"
	"slidegen/internal/slideshow"
)

// AssignEntities binds one entity to each category. When the catalog names a
// designated entity it lands in exactly one eligible category and is never
// drawn elsewhere.
func AssignEntities(rng *rand.Rand, cat *catalog.Catalog, categories []catalog.Category) ([]slideshow.Slide, error) {
	designated := cat.DesignatedEntity()
	excluded := cat.ExcludedCategory()

	placement := -1
	if designated != "" {
		var eligible []int
		for i, category := range categories {
			if category.ID != excluded && slices.Contains(category.Entities, designated) {
				eligible = append(eligible, i)
			}
		}
		if len(eligible) == 0 {
			return nil, services.Wrap(services.ErrPlacement, "assembler", "assign entities",
				fmt.Sprintf("no eligible category for %q", designated), nil)
		}
		placement = eligible[rng.IntN(len(eligible))]
	}

	slides := make([]slideshow.Slide, 0, len(categories))
	for i, category := range categories {
		var entityID string
		if i == placement {
			entityID = designated
		} else {
			choices := make([]string, 0, len(category.Entities))
			for _, id := range category.Entities {
				if designated == "" || id != designated {
					choices = append(choices, id)
				}
			}
			if len(choices) == 0 {
				return nil, services.Wrap(services.ErrPlacement, "assembler", "assign entities",
					fmt.Sprintf("no valid entities in category %q", category.ID), nil)
			}
			entityID = choices[rng.IntN(len(choices))]
		}

		entity, ok := cat.Entity(entityID)
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "assembler", "assign entities",
				fmt.Sprintf("category %q references unknown entity %q", category.ID, entityID), nil)
		}
		slides = append(slides, slideshow.Slide{
			CategoryID:    category.ID,
			CategoryLabel: category.Label,
			EntityID:      entity.ID,
			EntityName:    entity.Name,
			CTA:           category.CTA && cat.CTA != nil,
		})
	}

	if designated != "" {
		if err := verifyDesignated(slides, designated, excluded); err != nil {
			return nil, err
		}
	}
	return slides, nil
}

func verifyDesignated(slides []slideshow.Slide, designated, excluded string) error {
	count := 0
	for _, slide := range slides {
		if slide.EntityID != designated {
			continue
		}
		count++
		if slide.CategoryID == excluded {
			return services.Wrap(services.ErrPlacement, "assembler", "verify placement",
				fmt.Sprintf("%q placed in excluded category %q", designated, excluded), nil)
		}
	}
	if count != 1 {
		return services.Wrap(services.ErrPlacement, "assembler", "verify placement",
			fmt.Sprintf("%q appears %d times, want exactly 1", designated, count), nil)
	}
	return nil
}

// BindImages attaches one on-disk image to every slide.
func BindImages(picker *assets.Picker, cat *catalog.Catalog, assetsDir string, slides []slideshow.Slide) ([]slideshow.Slide, error) {
	indexed := cat.ImageSelection == catalog.SelectionIndexed
	out := make([]slideshow.Slide, len(slides))
	for i, slide := range slides {
		dir := cat.EntityDir(assetsDir, slide.EntityID)
		image, err := picker.Pick(dir, indexed)
		if err != nil {
			return nil, fmt.Errorf("bind image for %s: %w", slide.EntityID, err)
		}
		slide.Image = image
		out[i] = slide
	}
	return out, nil
}

// VerifyImages confirms every bound image still exists on disk.
func VerifyImages(slides []slideshow.Slide) error {
	for i, slide := range slides {
		info, err := os.Stat(slide.Image)
		if err != nil || !info.Mode().IsRegular() {
			return services.Wrap(services.ErrAssetMissing, "assembler", "verify images",
				fmt.Sprintf("slide %d image %q is not a file", i+1, slide.Image), err)
		}
	}
	return nil
}

// BaselineText returns the placeholder copy for the text slot at index.
func BaselineText(cat *catalog.Catalog, route catalog.Route, index int, slide slideshow.Slide) string {
	if index >= 0 && index < len(route.FallbackLines) {
		if line := strings.TrimSpace(route.FallbackLines[index]); line != "" {
			return line
		}
	}
	template := cat.DefaultTemplate
	if category, ok := cat.Category(slide.CategoryID); ok && strings.TrimSpace(category.Template) != "" {
		template = category.Template
	}
	return strings.ReplaceAll(template, catalog.AppPlaceholder, slide.EntityName)
}

// PickHook draws the hook text and image. Route hooks take precedence over
// catalog hooks; without a hook folder the first slide image is reused.
func PickHook(rng *rand.Rand, picker *assets.Picker, cat *catalog.Catalog, route catalog.Route, assetsDir string, slides []slideshow.Slide) (slideshow.Hook, error) {
	hooks := route.Hooks
	if len(hooks) == 0 {
		hooks = cat.Hooks
	}
	var hook slideshow.Hook
	switch {
	case len(hooks) > 0:
		hook.Text = hooks[rng.IntN(len(hooks))]
	case strings.TrimSpace(route.FallbackHook) != "":
		hook.Text = route.FallbackHook
	default:
		return slideshow.Hook{}, services.Wrap(services.ErrConfiguration, "assembler", "pick hook",
			fmt.Sprintf("no hooks configured for route %q", route.ID), nil)
	}

	if dir := cat.HookDir(assetsDir); dir != "" {
		image, err := picker.PickAny(dir)
		if err != nil {
			return slideshow.Hook{}, fmt.Errorf("pick hook image: %w", err)
		}
		hook.Image = image
		return hook, nil
	}
	if len(slides) == 0 {
		return slideshow.Hook{}, services.Wrap(services.ErrAssetMissing, "assembler", "pick hook", "no slide image to reuse for hook", nil)
	}
	hook.Image = slides[0].Image
	return hook, nil
}

// Inputs groups the collaborators needed to build a skeleton.
type Inputs struct {
	Rand      *rand.Rand
	Picker    *assets.Picker
	Catalog   *catalog.Catalog
	Route     catalog.Route
	AssetsDir string
}

// BuildSkeleton places entities, binds images, picks the hook, and fills
// baseline copy for every text slot.
func BuildSkeleton(in Inputs, categories []catalog.Category) (slideshow.Skeleton, error) {
	slides, err := AssignEntities(in.Rand, in.Catalog, categories)
	if err != nil {
		return slideshow.Skeleton{}, err
	}
	slides, err = BindImages(in.Picker, in.Catalog, in.AssetsDir, slides)
	if err != nil {
		return slideshow.Skeleton{}, err
	}
	hook, err := PickHook(in.Rand, in.Picker, in.Catalog, in.Route, in.AssetsDir, slides)
	if err != nil {
		return slideshow.Skeleton{}, err
	}

	slot := 0
	for i := range slides {
		if slides[i].CTA {
			continue
		}
		slides[i].OverlayText = BaselineText(in.Catalog, in.Route, slot, slides[i])
		slot++
	}
	if err := VerifyImages(slides); err != nil {
		return slideshow.Skeleton{}, err
	}
	return slideshow.Skeleton{
		Variant: in.Catalog.ID,
		Route:   in.Route.ID,
		Hook:    hook,
		Slides:  slides,
	}, nil
}
