// Package pipeline executes the resolved backend chain for one file.
//
// A file is classified once, fingerprinted once, and then runs its chain
// strictly in slot order. Each step consults the result cache before
// invoking its backend; transient failures are retried with doubling
// backoff up to the configured budget, with each attempt bounded by the
// step timeout. A permanent failure or an exhausted budget stops the
// remaining steps but keeps the artifacts already produced.
package pipeline
