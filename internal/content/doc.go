// Package content aggregates JSON content records for one or more content types.
//
// Every `*.json` file found under a content root is one record. Records are
// deduplicated by resolved (symlink-free, absolute) path with the first
// occurrence winning, tagged with their project-relative source path and
// stable-sorted by their numeric "order" field. Files that cannot be read or
// parsed are reported as warnings and skipped; only directory level I/O
// failures abort a load.
package content
