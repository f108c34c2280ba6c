// Package fingerprint derives deterministic content identities: exact
// cryptographic digests for cache keys and perceptual hash values for
// near-duplicate comparison.
package fingerprint
