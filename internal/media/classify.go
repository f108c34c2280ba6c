package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dhowden/tag"
)

// headerWindow bounds how much of a file the classifier reads. Magic bytes
// and container brands all live well within this window.
const headerWindow = 8192

// Classify inspects the first bytes of the file at path and returns its
// media kind. The file extension is consulted only as a hint for ambiguous
// plain-text content. Unreadable or empty files produce an error, which is
// fatal for that file only.
func Classify(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, fmt.Errorf("classify %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, headerWindow)
	n, err := f.Read(header)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return KindUnknown, fmt.Errorf("classify %s: %w", path, err)
		}
		return KindUnknown, fmt.Errorf("classify %s: empty file", path)
	}
	header = header[:n]

	if kind := sniff(header, strings.ToLower(filepath.Ext(path))); kind != KindUnknown {
		return kind, nil
	}

	// Some audio containers hide their signature behind variable-length
	// metadata; let the tag reader have a look before giving up.
	if _, err := f.Seek(0, 0); err == nil {
		if _, fileType, err := tag.Identify(f); err == nil && fileType != tag.UnknownFileType {
			return KindAudio, nil
		}
	}

	return KindUnknown, nil
}

func sniff(header []byte, ext string) Kind {
	switch {
	case bytes.HasPrefix(header, []byte("\x89PNG\r\n\x1a\n")),
		bytes.HasPrefix(header, []byte("\xff\xd8\xff")),
		bytes.HasPrefix(header, []byte("GIF87a")),
		bytes.HasPrefix(header, []byte("GIF89a")),
		bytes.HasPrefix(header, []byte("BM")),
		bytes.HasPrefix(header, []byte("II*\x00")),
		bytes.HasPrefix(header, []byte("MM\x00*")):
		return KindImage
	case isRIFF(header, "WEBP"):
		return KindImage
	case isRIFF(header, "WAVE"):
		return KindAudio
	case isRIFF(header, "AVI "):
		return KindVideo
	case bytes.HasPrefix(header, []byte("fLaC")),
		bytes.HasPrefix(header, []byte("OggS")),
		bytes.HasPrefix(header, []byte("ID3")),
		isMP3FrameSync(header),
		isIFF(header, "AIFF"):
		return KindAudio
	case bytes.HasPrefix(header, []byte("\x1aE\xdf\xa3")):
		// Matroska EBML covers both mkv and webm.
		return KindVideo
	case len(header) >= 12 && bytes.Equal(header[4:8], []byte("ftyp")):
		return kindFromFtypBrand(string(header[8:12]))
	case bytes.HasPrefix(header, []byte("WEBVTT")):
		return KindSubtitle
	case looksLikeText(header):
		if bytes.Contains(header, []byte("-->")) {
			return KindSubtitle
		}
		if ext == ".srt" || ext == ".vtt" {
			return KindSubtitle
		}
		return KindUnknown
	}
	return KindUnknown
}

func kindFromFtypBrand(brand string) Kind {
	switch strings.TrimSpace(brand) {
	case "heic", "heix", "heif", "mif1", "msf1", "avif", "avis":
		return KindImage
	case "M4A", "M4B", "M4P":
		return KindAudio
	case "isom", "iso2", "iso4", "iso5", "iso6", "mp41", "mp42", "avc1", "qt", "M4V", "dash":
		return KindVideo
	}
	return KindVideo // unrecognized brands are overwhelmingly video containers
}

func isRIFF(header []byte, format string) bool {
	return len(header) >= 12 &&
		bytes.HasPrefix(header, []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte(format))
}

func isIFF(header []byte, format string) bool {
	return len(header) >= 12 &&
		bytes.HasPrefix(header, []byte("FORM")) &&
		bytes.Equal(header[8:12], []byte(format))
}

func isMP3FrameSync(header []byte) bool {
	return len(header) >= 2 && header[0] == 0xff && header[1]&0xe0 == 0xe0 && header[1] != 0xff
}

func looksLikeText(header []byte) bool {
	if !utf8.Valid(header) {
		// The window may cut a multi-byte rune; tolerate a ragged tail.
		trimmed := header
		for i := 0; i < 3 && len(trimmed) > 0; i++ {
			trimmed = trimmed[:len(trimmed)-1]
			if utf8.Valid(trimmed) {
				break
			}
		}
		if !utf8.Valid(trimmed) {
			return false
		}
		header = trimmed
	}
	for _, b := range header {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			return false
		}
	}
	return true
}
