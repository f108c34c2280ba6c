package main

import (
	"os"
	"path/filepath"
	"testing"

	"mediatools/internal/services/srt"
	"mediatools/internal/testsupport"
)

func TestSubtitlesAlignWritesAlignedTrack(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, "")

	reference := filepath.Join(base, "reference.srt")
	testsupport.WriteSRT(t, reference, "")

	// The input track carries the same lines shifted two seconds late.
	shifted := `1
00:00:03,000 --> 00:00:04,500
Hello there.

2
00:00:05,000 --> 00:00:06,000
General Kenobi.

3
00:00:07,250 --> 00:00:08,750
You are a bold one.
`
	track := filepath.Join(base, "track.srt")
	testsupport.WriteSRT(t, track, shifted)

	out, _, err := runCLI(t, configPath, "subtitles", "align", "--reference", reference, track)
	if err != nil {
		t.Fatalf("subtitles align: %v", err)
	}
	requireContains(t, out, ".aligned.srt")

	alignedPath := filepath.Join(base, "track.aligned.srt")
	data, err := os.ReadFile(alignedPath)
	if err != nil {
		t.Fatalf("read aligned track: %v", err)
	}
	aligned, err := srt.Parse(data)
	if err != nil {
		t.Fatalf("parse aligned track: %v", err)
	}
	if len(aligned.Cues) != 3 {
		t.Fatalf("cues = %d", len(aligned.Cues))
	}
	if got := aligned.Cues[0].StartMS; got < 980 || got > 1020 {
		t.Errorf("first cue start = %dms, want ~1000ms", got)
	}
}

func TestSubtitlesAlignRequiresReference(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, "")
	track := filepath.Join(base, "track.srt")
	testsupport.WriteSRT(t, track, "")

	if _, _, err := runCLI(t, configPath, "subtitles", "align", track); err == nil {
		t.Fatal("expected error without --reference")
	}
}
