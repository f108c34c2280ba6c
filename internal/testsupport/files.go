package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"
)

// GradientImage returns a horizontal gray gradient, useful for perceptual
// hash tests because half the pixels land above the mean.
func GradientImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / (width - 1))
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// InvertedGradientImage returns the mirror image of GradientImage; its
// average hash is the bitwise complement of the gradient's.
func InvertedGradientImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 - x*255/(width-1))
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// WritePNG encodes img as PNG at path.
func WritePNG(t testing.TB, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	writeFile(t, path, buf.Bytes())
}

// WriteJPEG encodes img as JPEG at path.
func WriteJPEG(t testing.TB, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	writeFile(t, path, buf.Bytes())
}

// WriteWAV writes a minimal valid mono 16-bit PCM WAV file with the given
// number of silent samples.
func WriteWAV(t testing.TB, path string, samples int) {
	t.Helper()
	const sampleRate = 8000
	dataLen := samples * 2

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))

	writeFile(t, path, buf.Bytes())
}

// SampleSRT is a small three-cue subtitle used across tests.
const SampleSRT = `1
00:00:01,000 --> 00:00:02,500
Hello there.

2
00:00:03,000 --> 00:00:04,000
General Kenobi.

3
00:00:05,250 --> 00:00:06,750
You are a bold one.
`

// WriteSRT writes content (SampleSRT when empty) to path.
func WriteSRT(t testing.TB, path, content string) {
	t.Helper()
	if content == "" {
		content = SampleSRT
	}
	writeFile(t, path, []byte(content))
}

// WriteMKVHeader writes the Matroska EBML magic followed by filler bytes.
func WriteMKVHeader(t testing.TB, path string) {
	t.Helper()
	data := append([]byte("\x1aE\xdf\xa3"), make([]byte, 64)...)
	writeFile(t, path, data)
}

func writeFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
