package catalog

import (
	"path/filepath"
	"slices"
	"strings"
)

// Image selection modes.
const (
	// SelectionIndexed draws a 1-based index and resolves <n>.<ext> on disk.
	SelectionIndexed = "indexed"
	// SelectionAny draws uniformly among every supported file in the folder.
	SelectionAny = "any"
)

// AppPlaceholder is replaced by the entity display name in category templates.
const AppPlaceholder = "{app}"

// Category is a slide slot kind with the entities allowed to represent it.
// CTA marks the slot whose text is the rendered call-to-action block.
type Category struct {
	ID       string   `toml:"id" validate:"required"`
	Label    string   `toml:"label" validate:"required"`
	Entities []string `toml:"entities" validate:"required,min=1,dive,required"`
	Template string   `toml:"template"`
	CTA      bool     `toml:"cta"`
}

// Entity is a sponsored subject with its own image folder.
type Entity struct {
	ID     string `toml:"id" validate:"required"`
	Name   string `toml:"name" validate:"required"`
	Folder string `toml:"folder"`
}

// Route is a narrative template. It carries either a fixed category Sequence
// or a SampleSize drawn from all categories, never both.
type Route struct {
	ID            string   `toml:"id" validate:"required"`
	Sequence      []string `toml:"sequence"`
	SampleSize    int      `toml:"sample_size" validate:"gte=0"`
	Hooks         []string `toml:"hooks"`
	FallbackHook  string   `toml:"fallback_hook"`
	FallbackLines []string `toml:"fallback_lines"`
}

// Sampled reports whether the route draws categories instead of listing them.
func (r Route) Sampled() bool {
	return len(r.Sequence) == 0 && r.SampleSize > 0
}

// Placement constrains where the designated entity may appear.
type Placement struct {
	DesignatedEntity string `toml:"designated_entity"`
	ExcludedCategory string `toml:"excluded_category"`
}

// CTA describes the call-to-action block rendered on CTA slides.
type CTA struct {
	Sentences  []string `toml:"sentences" validate:"required,min=1,dive,required"`
	MinRepeats int      `toml:"min_repeats" validate:"gte=1"`
	MaxRepeats int      `toml:"max_repeats" validate:"gtefield=MinRepeats"`
	Closing    string   `toml:"closing"`
}

// Catalog is the static definition of one slideshow variant.
type Catalog struct {
	ID              string     `toml:"id" validate:"required"`
	Name            string     `toml:"name" validate:"required"`
	ImageRoot       string     `toml:"image_root"`
	ImageSelection  string     `toml:"image_selection" validate:"oneof=indexed any"`
	HookImageDir    string     `toml:"hook_image_dir"`
	Hooks           []string   `toml:"hooks"`
	Captions        []string   `toml:"captions"`
	DefaultTemplate string     `toml:"default_template"`
	Prompt          string     `toml:"prompt" validate:"required_without=PromptTemplate"`
	PromptTemplate  string     `toml:"prompt_template"`
	Locale          string     `toml:"locale"`
	Placement       *Placement `toml:"placement"`
	CTA             *CTA       `toml:"cta"`
	Routes          []Route    `toml:"routes" validate:"required,min=1,dive"`
	Categories      []Category `toml:"categories" validate:"required,min=1,dive"`
	Entities        []Entity   `toml:"entities" validate:"required,min=1,dive"`
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Entity looks up an entity by id.
func (c *Catalog) Entity(id string) (Entity, bool) {
	for _, entity := range c.Entities {
		if entity.ID == id {
			return entity, true
		}
	}
	return Entity{}, false
}

// Route looks up a route by id.
func (c *Catalog) Route(id string) (Route, bool) {
	for _, route := range c.Routes {
		if route.ID == id {
			return route, true
		}
	}
	return Route{}, false
}

// RouteIDs returns route identifiers in declaration order.
func (c *Catalog) RouteIDs() []string {
	ids := make([]string, 0, len(c.Routes))
	for _, route := range c.Routes {
		ids = append(ids, route.ID)
	}
	return ids
}

// DesignatedEntity returns the must-appear-once entity id, or "" when the
// catalog has no placement constraint.
func (c *Catalog) DesignatedEntity() string {
	if c.Placement == nil {
		return ""
	}
	return strings.TrimSpace(c.Placement.DesignatedEntity)
}

// ExcludedCategory returns the category the designated entity may never occupy.
func (c *Catalog) ExcludedCategory() string {
	if c.Placement == nil {
		return ""
	}
	return strings.TrimSpace(c.Placement.ExcludedCategory)
}

// EntityDir resolves the image folder for an entity under assetsDir.
func (c *Catalog) EntityDir(assetsDir, id string) string {
	folder := id
	if entity, ok := c.Entity(id); ok && strings.TrimSpace(entity.Folder) != "" {
		folder = entity.Folder
	}
	return filepath.Join(assetsDir, c.ImageRoot, folder)
}

// HookDir resolves the dedicated hook image folder, or "" when hooks reuse
// the first slide image.
func (c *Catalog) HookDir(assetsDir string) string {
	if strings.TrimSpace(c.HookImageDir) == "" {
		return ""
	}
	return filepath.Join(assetsDir, c.HookImageDir)
}

// SelectableEntities returns every entity referenced by at least one
// category, sorted by id.
func (c *Catalog) SelectableEntities() []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, cat := range c.Categories {
		for _, id := range cat.Entities {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// HasCTA reports whether any category renders the call-to-action block.
func (c *Catalog) HasCTA() bool {
	if c.CTA == nil {
		return false
	}
	for _, cat := range c.Categories {
		if cat.CTA {
			return true
		}
	}
	return false
}
