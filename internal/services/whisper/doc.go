// Package whisper wraps the whisper.cpp command-line tool as the toolkit's
// speech-to-text capability. Only the narrow transcribe contract leaks out;
// the tool itself stays swappable.
package whisper
