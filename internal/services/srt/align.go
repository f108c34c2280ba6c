package srt

import (
	"regexp"
	"strings"

	"mediatools/internal/artifact"
)

// maxMatchWindowMS bounds how far apart in time two cues may sit and still
// be considered the same line once an anchor exists.
const maxMatchWindowMS = 60_000

// minMatchScore is the weakest text similarity accepted as an anchor pair.
const minMatchScore = 0.4

// Alignment describes the linear time transform applied to a track:
// t_new = Scale*t_old + OffsetMS.
type Alignment struct {
	Scale    float64
	OffsetMS int64
	Anchors  int
}

// Identity reports whether the alignment left timing unchanged.
func (a Alignment) Identity() bool {
	return a.Scale == 1.0 && a.OffsetMS == 0
}

// Align shifts and scales track timing to match reference, anchoring on cue
// pairs with similar text. With fewer than two anchors the track is
// returned unchanged apart from renumbering.
func Align(track, reference artifact.SubtitleTrack) (artifact.SubtitleTrack, Alignment) {
	matches := findAnchors(reference.Cues, track.Cues)

	transform := Alignment{Scale: 1.0, Anchors: len(matches)}
	if len(matches) >= 2 {
		transform = computeTransform(matches)
		transform.Anchors = len(matches)
	}

	aligned := artifact.SubtitleTrack{Language: track.Language}
	if aligned.Language == "" {
		aligned.Language = reference.Language
	}
	aligned.Cues = make([]artifact.Cue, len(track.Cues))
	for i, cue := range track.Cues {
		aligned.Cues[i] = artifact.Cue{
			Index:   i + 1,
			StartMS: transform.apply(cue.StartMS),
			EndMS:   transform.apply(cue.EndMS),
			Text:    cue.Text,
		}
	}
	return aligned, transform
}

func (a Alignment) apply(ms int64) int64 {
	v := a.Scale*float64(ms) + float64(a.OffsetMS)
	if v < 0 {
		return 0
	}
	return int64(v + 0.5)
}

type anchorPair struct {
	ref artifact.Cue
	cue artifact.Cue
}

// findAnchors pairs track cues with reference cues by text similarity,
// considering timing proximity once at least one anchor exists.
func findAnchors(reference, cues []artifact.Cue) []anchorPair {
	var matches []anchorPair

	for _, cue := range cues {
		cueNorm := normalizeText(cue.Text)
		if cueNorm == "" {
			continue
		}

		var best *artifact.Cue
		bestScore := 0.0

		for i := range reference {
			ref := &reference[i]
			refNorm := normalizeText(ref.Text)
			if refNorm == "" {
				continue
			}

			timeDiff := cue.StartMS - ref.StartMS
			if timeDiff < 0 {
				timeDiff = -timeDiff
			}
			if len(matches) > 0 && timeDiff > maxMatchWindowMS {
				continue
			}

			var score float64
			switch {
			case cueNorm == refNorm:
				score = 1.0
			case strings.Contains(refNorm, cueNorm):
				score = 0.9
			case strings.Contains(cueNorm, refNorm):
				score = 0.8
			default:
				if overlap := wordOverlap(cueNorm, refNorm); overlap >= 0.6 {
					score = overlap * 0.7
				}
			}

			if score > bestScore {
				bestScore = score
				best = ref
			}
		}

		if best != nil && bestScore >= minMatchScore {
			matches = append(matches, anchorPair{ref: *best, cue: cue})
		}
	}

	return matches
}

var textNormalizeRe = regexp.MustCompile(`[^a-z0-9\s]`)

func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = textNormalizeRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// wordOverlap calculates the ratio of matching words between two strings,
// using the smaller set as denominator.
func wordOverlap(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	matches := 0
	for _, wa := range wordsA {
		for _, wb := range wordsB {
			if wa == wb {
				matches++
				break
			}
		}
	}

	denom := len(wordsA)
	if len(wordsB) < denom {
		denom = len(wordsB)
	}
	return float64(matches) / float64(denom)
}

// computeTransform fits t_ref = scale * t_cue + offset from the first and
// last anchor pair.
func computeTransform(matches []anchorPair) Alignment {
	first := matches[0]
	last := matches[len(matches)-1]

	t1Cue := float64(first.cue.StartMS)
	t1Ref := float64(first.ref.StartMS)
	t2Cue := float64(last.cue.StartMS)
	t2Ref := float64(last.ref.StartMS)

	if t2Cue == t1Cue {
		return Alignment{Scale: 1.0, OffsetMS: int64(t1Ref - t1Cue)}
	}

	scale := (t2Ref - t1Ref) / (t2Cue - t1Cue)
	offset := t1Ref - scale*t1Cue
	return Alignment{Scale: scale, OffsetMS: int64(offset)}
}
