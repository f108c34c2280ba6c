package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"mediatools/internal/batch"
	"mediatools/internal/pipeline"
	"mediatools/internal/testsupport"
)

func TestScanReportsEachFile(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, "")

	img := filepath.Join(base, "photo.png")
	testsupport.WritePNG(t, img, testsupport.GradientImage(16, 16))
	track := filepath.Join(base, "track.srt")
	testsupport.WriteSRT(t, track, "")

	out, _, err := runCLI(t, configPath, "scan", img, track)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "photo.png")
	requireContains(t, out, "track.srt")
	requireContains(t, out, "2 completed, 0 failed, 0 unsupported")
}

func TestScanJSONOutput(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, "")

	img := filepath.Join(base, "photo.png")
	testsupport.WritePNG(t, img, testsupport.GradientImage(16, 16))

	out, _, err := runCLI(t, configPath, "--json", "scan", img)
	if err != nil {
		t.Fatalf("scan --json: %v", err)
	}

	var report batch.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("parse report: %v\n%s", err, out)
	}
	if len(report.Outcomes) != 1 {
		t.Fatalf("outcomes = %d", len(report.Outcomes))
	}
	if report.Outcomes[0].Status != pipeline.StatusCompleted {
		t.Errorf("status = %s", report.Outcomes[0].Status)
	}
	if report.RunID == "" {
		t.Error("missing run ID")
	}
}

func TestScanFailsExitWithFailedFiles(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, "")

	empty := filepath.Join(base, "empty.png")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, configPath, "scan", empty)
	if err == nil {
		t.Fatalf("expected failure exit, output:\n%s", out)
	}
	requireContains(t, out, "failed")
}

func TestScanUsesDurableCacheAcrossInvocations(t *testing.T) {
	base := t.TempDir()
	cacheDir := filepath.Join(base, "cache")
	configPath := writeTestConfig(t, base, cacheDir)

	img := filepath.Join(base, "photo.png")
	testsupport.WritePNG(t, img, testsupport.GradientImage(16, 16))

	if _, _, err := runCLI(t, configPath, "scan", img); err != nil {
		t.Fatalf("first scan: %v", err)
	}

	out, _, err := runCLI(t, configPath, "--json", "scan", img)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	var report batch.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(report.Outcomes) != 1 || len(report.Outcomes[0].Steps) != 1 {
		t.Fatalf("unexpected report shape: %+v", report)
	}
	if !report.Outcomes[0].Steps[0].FromCache {
		t.Error("second invocation did not hit the durable cache")
	}
}
