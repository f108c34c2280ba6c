package backend

import (
	"fmt"

	"mediatools/internal/fingerprint"
)

// Descriptor is a backend's immutable identity. Name and Version identify
// the capability; ConfigDigest folds in every configuration knob that can
// change output, so a config change yields a new cache key rather than a
// stale hit.
type Descriptor struct {
	Name         string
	Version      string
	ConfigDigest string
}

// NewDescriptor builds a descriptor, digesting the config description.
func NewDescriptor(name, version, configDesc string) Descriptor {
	return Descriptor{
		Name:         name,
		Version:      version,
		ConfigDigest: fingerprint.FromString(configDesc).Short(),
	}
}

// ID returns the stable identity string used in cache keys and logs.
func (d Descriptor) ID() string {
	return fmt.Sprintf("%s@%s+%s", d.Name, d.Version, d.ConfigDigest)
}
