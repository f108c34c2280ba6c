package whisper

import (
	"encoding/json"
	"os"
	"strings"

	"golang.org/x/text/language"

	"mediatools/internal/artifact"
	"mediatools/internal/services"
)

// whisper.cpp --output-json-full document, reduced to the fields we consume.
type outputDocument struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseOutput(path string) (artifact.Transcript, error) {
	var transcript artifact.Transcript

	data, err := os.ReadFile(path)
	if err != nil {
		return transcript, services.Wrap(services.ErrTransient, "whisper", "parse", "read tool output", err)
	}

	var doc outputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return transcript, services.Wrap(services.ErrPermanent, "whisper", "parse", "malformed tool output", err)
	}

	transcript.Language = normalizeLanguage(doc.Result.Language)
	transcript.Segments = make([]artifact.Segment, 0, len(doc.Transcription))

	var sb strings.Builder
	for _, seg := range doc.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		transcript.Segments = append(transcript.Segments, artifact.Segment{
			StartMS: seg.Offsets.From,
			EndMS:   seg.Offsets.To,
			Text:    text,
		})
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	transcript.Text = sb.String()

	return transcript, nil
}

// normalizeLanguage validates the detected tag, falling back to "und".
func normalizeLanguage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "auto" {
		return "und"
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "und"
	}
	return tag.String()
}
