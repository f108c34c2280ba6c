// Package main hosts the mediatools CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration, logging, the backend
// registry, the result cache, and the batch orchestrator together, then
// surfaces them as focused commands: scan, dupes, hash, transcribe,
// removebg, subtitles align, plus cache and config utilities.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
