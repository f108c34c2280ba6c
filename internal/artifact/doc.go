// Package artifact defines the typed outputs backends produce and the JSON
// envelope the result cache persists them in.
package artifact
