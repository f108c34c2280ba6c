// Package services holds the error taxonomy shared by backend capability
// wrappers and the helpers its subpackages use to shell out to external
// tools.
package services
