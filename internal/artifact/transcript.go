package artifact

import "strings"

// Transcript is an ordered sequence of timestamped speech segments plus the
// detected language tag (BCP 47, "und" when detection failed).
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Segment is one timed span of recognized speech. Times are milliseconds
// from stream start.
type Segment struct {
	StartMS int64  `json:"start"`
	EndMS   int64  `json:"end"`
	Text    string `json:"text"`
}

// PlainText joins segment text, falling back to the full-text field.
func (t Transcript) PlainText() string {
	if len(t.Segments) == 0 {
		return strings.TrimSpace(t.Text)
	}
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if s := strings.TrimSpace(seg.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ToSubtitleTrack converts the transcript into a cue track, one cue per
// segment, preserving order.
func (t Transcript) ToSubtitleTrack() SubtitleTrack {
	cues := make([]Cue, 0, len(t.Segments))
	for i, seg := range t.Segments {
		cues = append(cues, Cue{
			Index:   i + 1,
			StartMS: seg.StartMS,
			EndMS:   seg.EndMS,
			Text:    seg.Text,
		})
	}
	return SubtitleTrack{Language: t.Language, Cues: cues}
}
