package srt

import (
	"testing"

	"mediatools/internal/artifact"
)

func makeTrack(offsetMS int64, lines ...string) artifact.SubtitleTrack {
	track := artifact.SubtitleTrack{Language: "en"}
	start := int64(1000)
	for i, line := range lines {
		track.Cues = append(track.Cues, artifact.Cue{
			Index:   i + 1,
			StartMS: start + offsetMS,
			EndMS:   start + offsetMS + 1500,
			Text:    line,
		})
		start += 4000
	}
	return track
}

func TestAlignRecoversConstantOffset(t *testing.T) {
	lines := []string{
		"Hello there, how are you today?",
		"I am doing quite well, thank you.",
		"The weather has been lovely lately.",
		"Shall we head out for a walk?",
	}
	reference := makeTrack(0, lines...)
	track := makeTrack(2000, lines...)

	aligned, transform := Align(track, reference)
	if transform.Anchors != len(lines) {
		t.Fatalf("anchors = %d, want %d", transform.Anchors, len(lines))
	}
	for i, cue := range aligned.Cues {
		want := reference.Cues[i].StartMS
		if diff := cue.StartMS - want; diff < -20 || diff > 20 {
			t.Errorf("cue %d start = %d, want ~%d", i, cue.StartMS, want)
		}
		if cue.Index != i+1 {
			t.Errorf("cue %d index = %d", i, cue.Index)
		}
	}
}

func TestAlignTooFewAnchorsKeepsTiming(t *testing.T) {
	track := makeTrack(0,
		"Completely unrelated line one.",
		"Nothing in common here either.",
	)
	reference := makeTrack(0,
		"Different dialogue altogether.",
		"No shared words whatsoever present.",
	)

	aligned, transform := Align(track, reference)
	if !transform.Identity() {
		t.Fatalf("transform = %+v, want identity", transform)
	}
	for i, cue := range aligned.Cues {
		if cue.StartMS != track.Cues[i].StartMS {
			t.Errorf("cue %d start changed: %d != %d", i, cue.StartMS, track.Cues[i].StartMS)
		}
	}
}

func TestAlignClampsNegativeTimes(t *testing.T) {
	lines := []string{
		"Opening line of the program.",
		"Second line with more words here.",
		"Third line to anchor the fit.",
	}
	reference := makeTrack(0, lines...)
	// Track starts later; aligning pulls its lead-in cue before zero.
	track := makeTrack(3000, lines...)
	track.Cues = append([]artifact.Cue{{
		Index: 0, StartMS: 500, EndMS: 900, Text: "mumble",
	}}, track.Cues...)

	aligned, _ := Align(track, reference)
	if aligned.Cues[0].StartMS != 0 {
		t.Errorf("lead-in start = %d, want clamped to 0", aligned.Cues[0].StartMS)
	}
}

func TestNormalizeText(t *testing.T) {
	got := normalizeText("  Hello,\n  WORLD!! ")
	if got != "hello world" {
		t.Errorf("normalizeText = %q", got)
	}
}
