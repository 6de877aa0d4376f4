// Package reembed rewrites the vector of every stored passage with a new or
// updated embedding model.
//
// Passages are paged through in ID order, embedded in batches with
// exponential-backoff retries, normalized for cosine similarity and written
// back in place. Progress is reported to an io.Writer as batches complete.
package reembed
