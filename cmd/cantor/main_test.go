package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cantor/internal/performance"
	"cantor/internal/reference"
)

type cliTestEnv struct {
	baseDir    string
	dataDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CANTOR_LOG_LEVEL", "error")

	env := &cliTestEnv{
		baseDir:    base,
		dataDir:    filepath.Join(base, "data"),
		configPath: filepath.Join(base, "cantor.toml"),
	}
	content := fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n\n[logging]\nlevel = \"error\"\n",
		env.dataDir, filepath.Join(base, "logs"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
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

var majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}

func rotatedProfile(root int) []float64 {
	out := make([]float64, 12)
	for i := range out {
		out[i] = majorProfile[(i-root+12)%12]
	}
	return out
}

// writeBundle writes a 19.5 s feature bundle whose reference matches the
// karaoke track frame for frame.
func writeBundle(t *testing.T, dir string) string {
	t.Helper()
	in := reference.Inputs{SampleRate: 48000, HopLength: 1024, Duration: 19.5}
	for i := range 1000 {
		in.Karaoke.Times = append(in.Karaoke.Times, float64(i)*0.02)
		in.Karaoke.Chroma = append(in.Karaoke.Chroma, rotatedProfile((i/50)%12))
	}
	in.Reference.Track = in.Karaoke
	for i := range 2000 {
		ts := float64(i) * 0.01
		f0, conf := 220*math.Pow(2, math.Floor(ts/2)/12), 0.9
		if math.Mod(ts, 2) > 1.6 {
			f0, conf = 0, 0.05
		}
		in.Reference.Pitch.Times = append(in.Reference.Pitch.Times, ts)
		in.Reference.Pitch.F0 = append(in.Reference.Pitch.F0, f0)
		in.Reference.Pitch.Confidence = append(in.Reference.Pitch.Confidence, conf)
	}
	for b := 0.0; b < 20; b += 0.5 {
		in.Beats = append(in.Beats, b)
	}
	in.Onsets = []float64{0, 4, 8, 12, 16}
	in.KeyChroma = [][]float64{rotatedProfile(2)}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal bundle: %v", err)
	}
	path := filepath.Join(dir, "Señorita Live.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	return path
}

// writePerformance sings the asset's own contour back.
func writePerformance(t *testing.T, dir string, asset *reference.Asset) string {
	t.Helper()
	var perf performance.Performance
	for _, p := range asset.F0RefOnK {
		perf.Timestamps = append(perf.Timestamps, p.T)
		perf.Pitch = append(perf.Pitch, p.F0)
	}
	data, err := json.Marshal(perf)
	if err != nil {
		t.Fatalf("marshal performance: %v", err)
	}
	path := filepath.Join(dir, "performance.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write performance: %v", err)
	}
	return path
}
