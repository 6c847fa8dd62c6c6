package main

import (
	"os"
	"testing"
)

func TestCheckOfflinePasses(t *testing.T) {
	env := setupCLITestEnv(t, "betai")
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Assets directory")
	requireContains(t, out, "Image coverage")
	requireContains(t, out, "provider none")
}

func TestCheckFailsWithoutAssets(t *testing.T) {
	env := setupCLITestEnv(t, "betai")
	if err := os.RemoveAll(env.assetsDir); err != nil {
		t.Fatalf("remove assets: %v", err)
	}
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check failure")
	}
	requireContains(t, out, "[ERROR]")
}
