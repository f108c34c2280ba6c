package artifact

// SubtitleTrack is an ordered list of subtitle cues.
type SubtitleTrack struct {
	Language string `json:"language,omitempty"`
	Cues     []Cue  `json:"cues"`
}

// Cue is one subtitle entry. Times are milliseconds from stream start.
type Cue struct {
	Index   int    `json:"index"`
	StartMS int64  `json:"start"`
	EndMS   int64  `json:"end"`
	Text    string `json:"text"`
}
