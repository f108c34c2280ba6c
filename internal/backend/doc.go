// Package backend defines the capability contract shared by all media
// processors and the registry that resolves which of them run for a given
// media kind.
//
// A backend fills exactly one pipeline slot. Slots execute in a fixed
// order; within a slot, backends are tried in registration order and the
// first one that applies to the file's kind wins. An Unknown kind resolves
// to an empty chain.
package backend
