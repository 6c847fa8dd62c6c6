package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"slidegen/internal/services"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints and cross references. Every failure is a
// configuration error.
func (c *Catalog) Validate() error {
	if c == nil {
		return services.Wrap(services.ErrConfiguration, "catalog", "validate", "catalog is nil", nil)
	}
	if err := validate.Struct(c); err != nil {
		return services.Wrap(services.ErrConfiguration, "catalog", "validate", c.ID, describeValidation(err))
	}

	var problems []string
	entities := map[string]struct{}{}
	for _, entity := range c.Entities {
		if _, dup := entities[entity.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate entity %q", entity.ID))
		}
		entities[entity.ID] = struct{}{}
	}

	categories := map[string]struct{}{}
	for _, cat := range c.Categories {
		if _, dup := categories[cat.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate category %q", cat.ID))
		}
		categories[cat.ID] = struct{}{}
		for _, id := range cat.Entities {
			if _, ok := entities[id]; !ok {
				problems = append(problems, fmt.Sprintf("category %q references unknown entity %q", cat.ID, id))
			}
		}
		if cat.CTA && c.CTA == nil {
			problems = append(problems, fmt.Sprintf("category %q is a cta slot but the catalog defines no cta", cat.ID))
		}
	}

	routes := map[string]struct{}{}
	for _, route := range c.Routes {
		if _, dup := routes[route.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate route %q", route.ID))
		}
		routes[route.ID] = struct{}{}
		hasSequence := len(route.Sequence) > 0
		hasSample := route.SampleSize > 0
		if hasSequence == hasSample {
			problems = append(problems, fmt.Sprintf("route %q must set exactly one of sequence or sample_size", route.ID))
		}
		for _, key := range route.Sequence {
			if _, ok := categories[key]; !ok {
				problems = append(problems, fmt.Sprintf("route %q references unknown category %q", route.ID, key))
			}
		}
		if hasSample && route.SampleSize > len(c.Categories) {
			problems = append(problems, fmt.Sprintf("route %q samples %d categories but only %d exist", route.ID, route.SampleSize, len(c.Categories)))
		}
	}

	if designated := c.DesignatedEntity(); designated != "" {
		if _, ok := entities[designated]; !ok {
			problems = append(problems, fmt.Sprintf("designated entity %q is not defined", designated))
		}
		if excluded := c.ExcludedCategory(); excluded != "" {
			if _, ok := categories[excluded]; !ok {
				problems = append(problems, fmt.Sprintf("excluded category %q is not defined", excluded))
			}
		}
	}

	if len(problems) > 0 {
		return services.Wrap(services.ErrConfiguration, "catalog", "validate", c.ID, errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
