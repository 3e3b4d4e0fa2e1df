// Package scraper provides the core functionality for downloading Pinterest
// boards.
//
// The scraper package orchestrates the entire download process, coordinating
// between the Pinterest API client, the on-disk board directory, the resume
// checkpoint, and the download worker pool.
//
// Architecture:
//
// The Scraper struct is the main component that:
//   - Resolves board references (IDs, user/board paths, full URLs, "all")
//   - Pages through a board's pins via the cursor-based API
//   - Reconciles each page against files already on disk, renaming files
//     whose pin note changed since an earlier run
//   - Fans new pins out to a bounded worker pool and prints one progress
//     line per completed download
//   - Persists a resume checkpoint after every fully successful page, so an
//     interrupted run restarts at the last completed page
//
// Usage:
//
//	cfg, err := config.Load("", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := scraper.New(cfg, accessToken)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s.Run([]string{"hermione/spellbook", "all"})
//
// Checkpointing:
//
// The checkpoint file lives next to the board directory as <dir>.json. It is
// written only after a page finishes with zero errors and still has a next
// cursor, and it is deleted once the final page completes. A page with any
// failed download aborts the board for this run and leaves the checkpoint at
// the previous page boundary, so the next run retries the failed page.
package scraper
