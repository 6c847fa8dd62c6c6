package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slidegen/internal/catalog"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	assetsDir  string
	outputDir  string
	logDir     string
}

func setupCLITestEnv(t *testing.T, variant string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("OPENAI_API_KEY", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(homeDir, ".config", "slidegen", "config.toml"),
		assetsDir:  filepath.Join(base, "assets"),
		outputDir:  filepath.Join(base, "output"),
		logDir:     filepath.Join(base, "logs"),
	}
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, env, variant)

	cat, err := catalog.Builtin(variant)
	if err != nil {
		t.Fatalf("Builtin(%s): %v", variant, err)
	}
	seedAssets(t, cat, env.assetsDir)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv, variant string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
assets_dir = %q
output_dir = %q
log_dir = %q

[generation]
variant = %q

[llm]
provider = "none"

[logging]
level = "error"
`, env.assetsDir, env.outputDir, env.logDir, variant)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func setProvider(t *testing.T, env *cliTestEnv, provider string) {
	t.Helper()
	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	updated := strings.Replace(string(data), `provider = "none"`, fmt.Sprintf("provider = %q", provider), 1)
	if err := os.WriteFile(env.configPath, []byte(updated), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func seedAssets(t *testing.T, cat *catalog.Catalog, root string) {
	t.Helper()
	dirs := []string{}
	for _, id := range cat.SelectableEntities() {
		dirs = append(dirs, cat.EntityDir(root, id))
	}
	if hook := cat.HookDir(root); hook != "" {
		dirs = append(dirs, hook)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir assets: %v", err)
		}
		for _, name := range []string{"1.jpg", "2.jpg"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
				t.Fatalf("write asset: %v", err)
			}
		}
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
