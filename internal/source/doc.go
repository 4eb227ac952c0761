// Package source implements the client for the external pet-listing
// provider. It handles request building, offset pagination, retry with
// exponential backoff, and rate-limit backoff, and decodes the provider's
// JSON envelope into raw records for the normalizer.
package source
