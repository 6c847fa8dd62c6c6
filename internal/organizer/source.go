package organizer

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"slidegen/internal/services"
)

// openSource lists the candidate files of a ZIP archive or directory in
// lexical order. The returned func releases the archive handle.
func openSource(source string) ([]entry, func(), error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "organizer", "open source", source, err)
	}
	if info.IsDir() {
		entries, err := walkDir(source)
		return entries, func() {}, err
	}
	if !strings.EqualFold(filepath.Ext(source), ".zip") {
		return nil, nil, services.Wrap(services.ErrConfiguration, "organizer", "open source",
			fmt.Sprintf("%s is neither a directory nor a .zip archive", source), nil)
	}
	reader, err := zip.OpenReader(source)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "organizer", "open source", "read zip archive", err)
	}
	return zipEntries(&reader.Reader), func() { _ = reader.Close() }, nil
}

func zipEntries(reader *zip.Reader) []entry {
	var entries []entry
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || hidden(file.Name) {
			continue
		}
		f := file
		entries = append(entries, entry{
			name:   f.Name,
			parent: path.Base(path.Dir(f.Name)),
			size:   int64(f.UncompressedSize64),
			open:   func() (io.ReadCloser, error) { return f.Open() },
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries
}

func walkDir(root string) ([]entry, error) {
	var entries []entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if p != root && hidden(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		full := p
		parent := ""
		if dir := filepath.Dir(rel); dir != "." {
			parent = filepath.Base(dir)
		}
		entries = append(entries, entry{
			name:   filepath.ToSlash(rel),
			parent: parent,
			size:   info.Size(),
			open:   func() (io.ReadCloser, error) { return os.Open(full) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return entries, nil
}

// hidden reports dotfiles and macOS archive metadata.
func hidden(name string) bool {
	for _, part := range strings.Split(filepath.ToSlash(name), "/") {
		if strings.HasPrefix(part, ".") || part == "__MACOSX" {
			return true
		}
	}
	return false
}
