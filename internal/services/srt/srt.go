// Package srt parses, formats, and time-aligns SubRip subtitle tracks.
package srt

import (
	"fmt"
	"strconv"
	"strings"

	"mediatools/internal/artifact"
	"mediatools/internal/services"
)

// Parse reads SRT text into a subtitle track. Malformed blocks are skipped;
// a payload with no parsable cues is a permanent error.
func Parse(data []byte) (artifact.SubtitleTrack, error) {
	var track artifact.SubtitleTrack

	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return track, services.Wrap(services.ErrPermanent, "srt", "parse", "empty subtitle payload", nil)
	}

	blocks := strings.Split(content, "\n\n")
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}

		start, end, err := parseTimingLine(lines[1])
		if err != nil {
			continue
		}

		track.Cues = append(track.Cues, artifact.Cue{
			Index:   index,
			StartMS: start,
			EndMS:   end,
			Text:    strings.Join(lines[2:], "\n"),
		})
	}

	if len(track.Cues) == 0 {
		return track, services.Wrap(services.ErrPermanent, "srt", "parse", "no parsable cues", nil)
	}
	return track, nil
}

// Format renders the track as SRT text, renumbering cues sequentially.
func Format(track artifact.SubtitleTrack) string {
	var sb strings.Builder
	for i, cue := range track.Cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatTimestamp(cue.StartMS), FormatTimestamp(cue.EndMS)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PlainText joins cue text with spaces, for text comparison and indexing.
func PlainText(track artifact.SubtitleTrack) string {
	parts := make([]string, 0, len(track.Cues))
	for _, cue := range track.Cues {
		if s := strings.TrimSpace(cue.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func parseTimingLine(line string) (int64, int64, error) {
	if !strings.Contains(line, "-->") {
		return 0, 0, fmt.Errorf("missing cue arrow in %q", line)
	}
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp converts "HH:MM:SS,mmm" into milliseconds. A period
// separator is tolerated.
func ParseTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return int64(hours)*3600000 + int64(minutes)*60000 + int64(seconds)*1000 + int64(millis), nil
}

// FormatTimestamp reverses ParseTimestamp.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	ms %= 3600000
	minutes := ms / 60000
	ms %= 60000
	seconds := ms / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
