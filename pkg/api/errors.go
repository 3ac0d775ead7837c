package api

import "errors"

// Common errors used throughout the index, ingestion, and search paths.
var (
	// ErrNotFound is returned by Store.Load when the fingerprint has no entry.
	ErrNotFound = errors.New("fingerprint not found in index")

	// ErrInvalidThreshold is returned for a negative search threshold.
	ErrInvalidThreshold = errors.New("invalid similarity threshold value")

	// ErrImageDecodeFailed wraps a failure to decode downloaded image bytes.
	ErrImageDecodeFailed = errors.New("failed to decode image data")

	// ErrTooManyTags is raised when an UpstreamClient search is given more
	// than two tags, the upstream board's hard constraint.
	ErrTooManyTags = errors.New("upstream search accepts at most two tags")

	// ErrUpstreamExhausted marks a page fetch that failed five consecutive
	// times; the caller should abandon the current refresh pass.
	ErrUpstreamExhausted = errors.New("upstream search exhausted its retry budget")

	// ErrNoDownloadURL marks an upstream post with no usable image URL.
	ErrNoDownloadURL = errors.New("post has no downloadable image url")

	// ErrStoreClosed is returned by a KV client after Close has been called.
	ErrStoreClosed = errors.New("kv store is closed")
)
