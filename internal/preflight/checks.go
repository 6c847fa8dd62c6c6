package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"slidegen/internal/assets"
	"slidegen/internal/catalog"
	"slidegen/internal/config"
	"slidegen/internal/services/textgen"
)

const llmCheckTimeout = 30 * time.Second

// CheckLLM verifies that the text service is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt.
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig, opts ...textgen.Option) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, llmCheckTimeout)
	defer cancel()

	client, err := textgen.New(checkCtx, cfg, opts...)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (model %s)", cfg.Provider, client.Model())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckCoverage verifies that every selectable entity folder, plus the hook
// folder when the catalog has one, holds at least one supported image. For
// indexed catalogs every index 1..n must also resolve.
func CheckCoverage(name, assetsDir string, cat *catalog.Catalog) Result {
	picker := assets.NewPicker(nil)
	indexed := cat.ImageSelection == catalog.SelectionIndexed

	type folder struct {
		label string
		dir   string
	}
	var folders []folder
	for _, id := range cat.SelectableEntities() {
		folders = append(folders, folder{label: id, dir: cat.EntityDir(assetsDir, id)})
	}
	if hook := cat.HookDir(assetsDir); hook != "" {
		folders = append(folders, folder{label: "hook", dir: hook})
	}

	var problems []string
	images := 0
	for _, f := range folders {
		count, err := picker.Count(f.dir)
		if err != nil || count == 0 {
			problems = append(problems, f.label+": no images")
			continue
		}
		images += count
		if !indexed {
			continue
		}
		missing, err := picker.MissingIndexes(f.dir)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", f.label, err))
			continue
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("%s: missing index %s", f.label, joinInts(missing)))
		}
	}

	if len(problems) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%d of %d folders incomplete (%s)", len(problems), len(folders), strings.Join(problems, "; "))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d folders, %d images", len(folders), images)}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

// summarizeLLMError produces a human-readable summary for health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (text service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (text service unreachable)"
	}
	return err.Error()
}
