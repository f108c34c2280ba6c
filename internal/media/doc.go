// Package media classifies files into coarse media kinds by inspecting
// content headers rather than trusting file extensions.
package media
