package media

// Kind is the coarse content classification of a file. It is assigned once
// per file and never re-derived mid-pipeline.
type Kind string

const (
	KindImage    Kind = "image"
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
	KindSubtitle Kind = "subtitle"
	KindUnknown  Kind = "unknown"
)

// Known reports whether the kind maps to a processing chain.
func (k Kind) Known() bool {
	switch k {
	case KindImage, KindAudio, KindVideo, KindSubtitle:
		return true
	}
	return false
}
