package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cantor/internal/reference"
)

func TestBuildScoreAndListRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	bundle := writeBundle(t, env.baseDir)

	out, _, err := runCLI(t, []string{"build", "--features", bundle}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "Wrote reference for senorita-live")
	requireContains(t, out, "D major")

	assetPath := filepath.Join(env.dataDir, "songs", "senorita-live", "reference.json")
	asset, err := reference.Load(assetPath)
	if err != nil {
		t.Fatalf("load built asset: %v", err)
	}

	out, _, err = runCLI(t, []string{"songs"}, env.configPath)
	if err != nil {
		t.Fatalf("songs: %v", err)
	}
	requireContains(t, out, "senorita-live")

	perfPath := writePerformance(t, env.baseDir, asset)
	resultPath := filepath.Join(env.baseDir, "result.json")
	out, _, err = runCLI(t, []string{"score", "--reference", "senorita-live", "--performance", perfPath, "--output", resultPath}, env.configPath)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	requireContains(t, out, "Overall accuracy 100.0%")
	requireContains(t, out, "5 of 5 phrases scored")

	data, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	for _, key := range []string{"version", "run_id", "song_id", "overall", "phrases", "charts"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("results missing %q: %s", key, data)
		}
	}
	if doc["song_id"] != "senorita-live" || doc["version"] != reference.Version {
		t.Fatalf("unexpected header: %v %v", doc["song_id"], doc["version"])
	}
	phrases, _ := doc["phrases"].([]any)
	if len(phrases) != 5 {
		t.Fatalf("expected 5 phrases, got %d", len(phrases))
	}
	first, _ := phrases[0].(map[string]any)
	if first["status"] != "scored" {
		t.Fatalf("unexpected phrase status %v", first["status"])
	}

	out, _, err = runCLI(t, []string{"runs", "senorita-live"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, doc["run_id"].(string))
	requireContains(t, out, "5/5")
}

func TestBuildHonoursSongIDAndOut(t *testing.T) {
	env := setupCLITestEnv(t)
	bundle := writeBundle(t, env.baseDir)
	outDir := filepath.Join(env.baseDir, "custom")

	if _, _, err := runCLI(t, []string{"build", "--features", bundle, "--song-id", "my-song", "--out", outDir}, env.configPath); err != nil {
		t.Fatalf("build: %v", err)
	}
	asset, err := reference.Load(filepath.Join(outDir, "reference.json"))
	if err != nil {
		t.Fatalf("load asset: %v", err)
	}
	if asset.SongID != "my-song" {
		t.Fatalf("song id = %q", asset.SongID)
	}

	out, _, err := runCLI(t, []string{"show", "my-song"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "My Song")
	requireContains(t, out, "linear")
}

func TestBuildRequiresFeatures(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "features") {
		t.Fatalf("expected missing flag error, got %v", err)
	}
}

func TestScoreUnknownSong(t *testing.T) {
	env := setupCLITestEnv(t)
	perf := filepath.Join(env.baseDir, "perf.json")
	if err := os.WriteFile(perf, []byte(`{"timestamps":[0,1],"pitch":[220,220]}`), 0o644); err != nil {
		t.Fatalf("write perf: %v", err)
	}
	_, _, err := runCLI(t, []string{"score", "--reference", "ghost", "--performance", perf}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSongsEmptyCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"songs"}, env.configPath)
	if err != nil {
		t.Fatalf("songs: %v", err)
	}
	requireContains(t, out, "No songs in catalog")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.dataDir)
	requireContains(t, out, filepath.Join(env.dataDir, "catalog.db"))
	requireContains(t, out, "DTW band")
	requireContains(t, out, "10.0%")
	requireContains(t, out, "all CPUs")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "paths.data_dir")
	requireContains(t, out, "cantor preflight")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestPreflightPasses(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight: %v\n%s", err, out)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "[OK]")
}

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("Catalog", statusError, "locked", false)
	if plain != "  Catalog:             [ERROR] locked" {
		t.Fatalf("unexpected line %q", plain)
	}
	colored := renderStatusLine("Catalog", statusOK, "", true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected colored line, got %q", colored)
	}
}
