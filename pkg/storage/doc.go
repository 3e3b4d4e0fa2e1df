// Package storage manages a board's download directory.
//
// The storage package handles:
//   - Creating the board directory
//   - Saving images with atomic write operations
//   - Indexing already-downloaded pins by the ID encoded in their filenames
//   - Renaming files whose pin note changed since they were downloaded
//
// The Manager type is the primary interface for storage operations. On
// creation it scans the directory once and keeps an in-memory index from
// pin ID to filename, so duplicate checks never hit the disk during a run.
package storage
