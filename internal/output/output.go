package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"slidegen/internal/fileutil"
	"slidegen/internal/services"
	"slidegen/internal/slideshow"
)

const lockRetryDelay = 50 * time.Millisecond

// WriteJSON writes post to path as indented JSON. An advisory lock on
// "<path>.lock" serializes writers targeting the same file.
func WriteJSON(ctx context.Context, path string, post slideshow.Post) error {
	var buf bytes.Buffer
	if err := slideshow.Encode(&buf, post); err != nil {
		return err
	}
	return writeLocked(ctx, path, buf.Bytes())
}

// LoadPost reads a post record written by WriteJSON.
func LoadPost(path string) (slideshow.Post, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return slideshow.Post{}, services.Wrap(services.ErrNotFound, "output", "load post", path, err)
		}
		return slideshow.Post{}, fmt.Errorf("open post: %w", err)
	}
	defer file.Close()
	post, err := slideshow.Decode(file)
	if err != nil {
		return slideshow.Post{}, fmt.Errorf("%s: %w", path, err)
	}
	return post, nil
}

// WritePreview renders post as HTML and writes it to path.
func WritePreview(ctx context.Context, path string, post slideshow.Post) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, post); err != nil {
		return err
	}
	return writeLocked(ctx, path, buf.Bytes())
}

func writeLocked(ctx context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("acquire output lock: %s is busy", path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
