// Package logging centralizes slog construction and the structured field
// conventions shared by the toolkit's packages.
package logging
