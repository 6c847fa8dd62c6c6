package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"slidegen/internal/services"
)

//go:embed variants/*.toml
var variantFS embed.FS

// Builtin returns the embedded catalog for the named variant.
func Builtin(id string) (*Catalog, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	data, err := variantFS.ReadFile("variants/" + id + ".toml")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "catalog", "builtin",
				fmt.Sprintf("unknown variant %q (available: %s)", id, strings.Join(BuiltinIDs(), ", ")), nil)
		}
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "builtin", "read embedded variant", err)
	}
	return Parse(data)
}

// BuiltinIDs lists the embedded variant identifiers in sorted order.
func BuiltinIDs() []string {
	entries, err := variantFS.ReadDir("variants")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".toml"); ok {
			ids = append(ids, name)
		}
	}
	slices.Sort(ids)
	return ids
}

// Load reads and validates a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "load", fmt.Sprintf("read %s", path), err)
	}
	return Parse(data)
}

// Resolve loads the custom catalog at path when set, otherwise the built-in
// variant.
func Resolve(path, variant string) (*Catalog, error) {
	if strings.TrimSpace(path) != "" {
		return Load(path)
	}
	return Builtin(variant)
}

// Parse decodes and validates catalog TOML.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cat); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, services.Wrap(services.ErrConfiguration, "catalog", "parse", "unknown keys", errors.New(strict.String()))
		}
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "parse", "decode toml", err)
	}
	cat.applyDefaults()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) applyDefaults() {
	c.ID = strings.ToLower(strings.TrimSpace(c.ID))
	if strings.TrimSpace(c.ImageSelection) == "" {
		c.ImageSelection = SelectionIndexed
	}
	c.ImageSelection = strings.ToLower(strings.TrimSpace(c.ImageSelection))
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = "en"
	}
	if strings.TrimSpace(c.DefaultTemplate) == "" {
		c.DefaultTemplate = "I use " + AppPlaceholder + " every day."
	}
	for i := range c.Entities {
		if strings.TrimSpace(c.Entities[i].Folder) == "" {
			c.Entities[i].Folder = c.Entities[i].ID
		}
	}
}
