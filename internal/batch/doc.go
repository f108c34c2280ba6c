// Package batch runs pipelines over many files with bounded concurrency.
//
// Files are independent: one file's failure never cancels or slows
// another. The report enumerates every input exactly once, in input
// order, with a definitive status.
package batch
