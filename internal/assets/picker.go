// Package assets resolves slide images from category folders on disk.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"slidegen/internal/services"
)

// SupportedExtensions lists image extensions in resolution preference order.
// Matching is case-sensitive.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png"}

// Picker draws images uniformly at random from a folder.
type Picker struct {
	rng  *rand.Rand
	exts []string
}

// NewPicker returns a picker backed by rng.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng, exts: SupportedExtensions}
}

// Supported reports whether name carries a supported image extension.
func Supported(name string) bool {
	return slices.Contains(SupportedExtensions, filepath.Ext(name))
}

// List returns the sorted absolute paths of supported files in dir.
func (p *Picker) List(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrAssetMissing, "assets", "list", dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrAssetMissing, "assets", "list", fmt.Sprintf("folder %s does not exist", abs), nil)
		}
		return nil, services.Wrap(services.ErrAssetMissing, "assets", "list", abs, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(p.exts, filepath.Ext(entry.Name())) {
			continue
		}
		files = append(files, filepath.Join(abs, entry.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// Count reports how many supported images dir holds.
func (p *Picker) Count(dir string) (int, error) {
	files, err := p.List(dir)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// PickAny draws uniformly among every supported file in dir.
func (p *Picker) PickAny(dir string) (string, error) {
	files, err := p.List(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", services.Wrap(services.ErrAssetMissing, "assets", "pick", fmt.Sprintf("no images found in %s", dir), nil)
	}
	return files[p.rng.IntN(len(files))], nil
}

// PickIndexed draws a 1-based index in [1, count] and resolves <n><ext> for
// the first extension that exists.
func (p *Picker) PickIndexed(dir string) (string, error) {
	files, err := p.List(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", services.Wrap(services.ErrAssetMissing, "assets", "pick", fmt.Sprintf("no images found in %s", dir), nil)
	}
	index := p.rng.IntN(len(files)) + 1
	return p.ResolveIndex(filepath.Dir(files[0]), index)
}

// ResolveIndex returns <dir>/<index><ext> for the first supported extension
// that exists.
func (p *Picker) ResolveIndex(dir string, index int) (string, error) {
	for _, ext := range p.exts {
		candidate := filepath.Join(dir, strconv.Itoa(index)+ext)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrAssetMissing, "assets", "pick", fmt.Sprintf("image %d missing in %s", index, dir), nil)
}

// MissingIndexes lists the indexes in [1, count] that do not resolve, where
// count is the number of supported files in dir. An indexed folder is healthy
// when the result is empty.
func (p *Picker) MissingIndexes(dir string) ([]int, error) {
	files, err := p.List(dir)
	if err != nil {
		return nil, err
	}
	var missing []int
	for index := 1; index <= len(files); index++ {
		if _, err := p.ResolveIndex(filepath.Dir(files[0]), index); err != nil {
			missing = append(missing, index)
		}
	}
	return missing, nil
}

// Pick dispatches on the catalog selection mode.
func (p *Picker) Pick(dir string, indexed bool) (string, error) {
	if indexed {
		return p.PickIndexed(dir)
	}
	return p.PickAny(dir)
}
