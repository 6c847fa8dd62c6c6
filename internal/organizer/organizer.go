package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"slidegen/internal/assets"
	"slidegen/internal/catalog"
	"slidegen/internal/fileutil"
	"slidegen/internal/logging"
	"slidegen/internal/services"
	"slidegen/internal/textutil"
)

// fuzzyThreshold is the minimum bigram similarity for a near-miss name to
// resolve to a known entity.
const fuzzyThreshold = 0.8

// Skip reasons.
const (
	ReasonUnsupported = "unsupported extension"
	ReasonUnparseable = "could not derive entity name"
	ReasonUnknown     = "unknown entity"
	ReasonExists      = "destination exists"
	ReasonDuplicate   = "duplicate destination in source"
)

// Options configures an import. Known maps folded entity keys to destination
// folder names; KnownFromCatalog builds it. DryRun plans copies without
// writing. Overwrite replaces existing destination files.
type Options struct {
	Source       string
	DestRoot     string
	Known        map[string]string
	AllowUnknown bool
	Overwrite    bool
	DryRun       bool
	Logger       *slog.Logger
}

// Copied describes one imported image.
type Copied struct {
	Source string
	Dest   string
	Entity string
}

// Skipped describes one ignored file.
type Skipped struct {
	Source string
	Reason string
}

// Report summarizes an import.
type Report struct {
	Copied  []Copied
	Skipped []Skipped
}

// Entities returns the sorted distinct destination folders that received files.
func (r Report) Entities() []string {
	seen := map[string]struct{}{}
	for _, c := range r.Copied {
		seen[c.Entity] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// KnownFromCatalog maps every entity's folded id, name, and folder to its
// folder.
func KnownFromCatalog(cat *catalog.Catalog) map[string]string {
	known := make(map[string]string, len(cat.Entities)*3)
	for _, entity := range cat.Entities {
		folder := entity.Folder
		if folder == "" {
			folder = entity.ID
		}
		for _, raw := range []string{entity.ID, entity.Name, folder} {
			if key := textutil.EntityKey(raw); key != "" {
				if _, taken := known[key]; !taken {
					known[key] = folder
				}
			}
		}
	}
	return known
}

// entry is one candidate file inside a source.
type entry struct {
	name   string
	parent string
	size   int64
	open   func() (io.ReadCloser, error)
}

// Import copies supported images from opts.Source into opts.DestRoot.
func Import(ctx context.Context, opts Options) (Report, error) {
	logger := logging.NewComponentLogger(opts.Logger, "organizer")
	if strings.TrimSpace(opts.Source) == "" {
		return Report{}, services.Wrap(services.ErrConfiguration, "organizer", "import", "source is required", nil)
	}
	if strings.TrimSpace(opts.DestRoot) == "" {
		return Report{}, services.Wrap(services.ErrConfiguration, "organizer", "import", "destination is required", nil)
	}

	entries, closeSource, err := openSource(opts.Source)
	if err != nil {
		return Report{}, err
	}
	defer closeSource()

	logger.Info("import started",
		logging.String("source", opts.Source),
		logging.String("dest", opts.DestRoot),
		logging.Int("files", len(entries)),
		logging.Bool("dry_run", opts.DryRun),
	)

	imp := importer{opts: opts, logger: logger, planned: map[string]struct{}{}, keys: sortedKeys(opts.Known)}
	var report Report
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		copied, skipped, err := imp.handle(e)
		if err != nil {
			return report, err
		}
		if skipped != nil {
			report.Skipped = append(report.Skipped, *skipped)
			continue
		}
		report.Copied = append(report.Copied, *copied)
	}

	logger.Info("import finished",
		logging.Int("copied", len(report.Copied)),
		logging.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

type importer struct {
	opts    Options
	logger  *slog.Logger
	planned map[string]struct{}
	keys    []string
}

func (imp *importer) handle(e entry) (*Copied, *Skipped, error) {
	ext := strings.ToLower(path.Ext(e.name))
	if !slices.Contains(assets.SupportedExtensions, ext) {
		return nil, &Skipped{Source: e.name, Reason: ReasonUnsupported}, nil
	}
	base := path.Base(e.name)
	stem := strings.TrimSuffix(base, path.Ext(base))

	folder, reason := imp.resolve(stem, e.parent)
	if folder == "" {
		imp.logger.Debug("file skipped", logging.String("file", e.name), logging.String("reason", reason))
		return nil, &Skipped{Source: e.name, Reason: reason}, nil
	}

	index := textutil.LeadingIndex(stem, "1")
	dest := filepath.Join(imp.opts.DestRoot, folder, index+ext)
	if _, dup := imp.planned[dest]; dup {
		return nil, &Skipped{Source: e.name, Reason: ReasonDuplicate}, nil
	}
	if !imp.opts.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			return nil, &Skipped{Source: e.name, Reason: ReasonExists}, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("stat %s: %w", dest, err)
		}
	}
	imp.planned[dest] = struct{}{}

	if !imp.opts.DryRun {
		if err := copyEntry(e, dest); err != nil {
			return nil, nil, fmt.Errorf("copy %s: %w", e.name, err)
		}
	}
	imp.logger.Debug("file imported", logging.String("file", e.name), logging.String("dest", dest))
	return &Copied{Source: e.name, Dest: dest, Entity: folder}, nil, nil
}

// resolve maps a file stem (or its parent folder) to a destination folder.
func (imp *importer) resolve(stem, parent string) (string, string) {
	key := textutil.EntityKey(stem)
	parentKey := textutil.EntityKey(parent)
	if key == "" && parentKey == "" {
		return "", ReasonUnparseable
	}
	for _, candidate := range []string{key, parentKey} {
		if candidate == "" {
			continue
		}
		if folder, ok := imp.opts.Known[candidate]; ok {
			return folder, ""
		}
	}
	for _, candidate := range []string{key, parentKey} {
		if candidate == "" {
			continue
		}
		if match, ok := textutil.BestMatch(candidate, imp.keys, fuzzyThreshold); ok {
			return imp.opts.Known[match], ""
		}
	}
	if imp.opts.AllowUnknown && key != "" {
		return key, ""
	}
	return "", ReasonUnknown
}

func copyEntry(e entry, dest string) error {
	rc, err := e.open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return fileutil.CopyReaderVerified(rc, e.size, dest)
}

func sortedKeys(known map[string]string) []string {
	keys := make([]string, 0, len(known))
	for key := range known {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
