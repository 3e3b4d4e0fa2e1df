package scraper

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"pindl/internal/downloader"
	"pindl/pkg/checkpoint"
	"pindl/pkg/config"
	"pindl/pkg/errors"
	"pindl/pkg/logger"
	"pindl/pkg/naming"
	"pindl/pkg/pinterest"
	"pindl/pkg/storage"
	"pindl/pkg/ui"
)

// Scraper handles downloading boards from Pinterest
type Scraper struct {
	client PinterestClient
	config *config.Config
	logger logger.Logger
	out    io.Writer
}

// New creates a new Scraper instance with the given configuration and
// access token.
func New(cfg *config.Config, accessToken string) (*Scraper, error) {
	log := logger.GetLogger()

	client := pinterest.NewClient(accessToken, cfg.Download.Timeout, log)
	if cfg.API.BaseURL != "" {
		client.SetBaseURL(cfg.API.BaseURL)
	}
	if cfg.API.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.API.UserAgent)
	}

	return &Scraper{
		client: client,
		config: cfg,
		logger: log,
		out:    os.Stdout,
	}, nil
}

// Run downloads every requested board in order. A failure on one board is
// logged and does not stop the remaining boards.
func (s *Scraper) Run(boards []string) {
	for _, board := range boards {
		var err error
		if board == "all" {
			err = s.DownloadAllBoards()
		} else {
			err = s.DownloadBoard(ParseBoardRef(board))
		}
		if err != nil {
			s.logger.ErrorWithFields(fmt.Sprintf("%s: %v", board, err), map[string]interface{}{
				"type": errors.TypeOf(err),
			})
		}
	}
}

// DownloadAllBoards downloads every board of the authenticated user,
// sequentially. The first board that fails aborts the rest.
func (s *Scraper) DownloadAllBoards() error {
	boards, err := s.client.FetchMyBoards()
	if err != nil {
		return err
	}

	if len(boards) == 0 {
		fmt.Fprintln(s.out, "You have no public boards")
		return nil
	}

	for _, board := range boards {
		if err := s.DownloadBoard(ParseBoardRef(board.URL)); err != nil {
			return err
		}
	}

	return nil
}

// DownloadBoard downloads all pin images of a single board, resuming from
// the saved checkpoint when one exists. The board reference must already be
// parsed (a bare ID or a user/board path, not a URL).
func (s *Scraper) DownloadBoard(board string) error {
	info, err := s.client.FetchBoard(board)
	if err != nil {
		return err
	}

	fmt.Fprint(s.out, ui.BoardHeader(info.Name, info.CreatorName(), info.PinCount()))

	// A bare numeric ID would make an ugly directory name; the canonical
	// URL carries the same user/board path the website shows.
	if board == info.ID {
		board = ParseBoardRef(info.URL)
	}

	dir := filepath.Join(s.config.Output.BaseDirectory, filepath.FromSlash(board))
	store, err := storage.NewManager(dir)
	if err != nil {
		return err
	}

	ckpt := checkpoint.NewStore(dir + ".json")
	var cursor string
	pagesDone := 0
	if saved, err := ckpt.Load(); err != nil {
		return err
	} else if saved != nil {
		cursor = saved.NextPageCursor
		pagesDone = saved.NumCompletePages
		s.logger.InfoWithFields("resuming from checkpoint", map[string]interface{}{
			"board":          board,
			"complete_pages": pagesDone,
		})
	}

	totalPins := info.PinCount()
	downloaded := 0

	pager := s.client.PinPages(board, cursor)
	for pager.Next() {
		page := pager.Page()

		// Pin numbers count every pin the board pages served so far,
		// including the ones skipped as already present.
		base := pagesDone * pinterest.MaxPageSize

		var jobs []downloader.Job
		for i, pin := range page.Pins {
			oldName, exists := store.ExistingFile(pin.ID)
			if !exists {
				jobs = append(jobs, downloader.Job{Pin: pin, Number: base + i + 1})
				continue
			}

			newName := naming.PinFilename(pin.ID, pin.Note, filepath.Ext(oldName))
			if newName == oldName {
				s.logger.Info(fmt.Sprintf("Pin %s already exists as:\n  %s", pin.ID, oldName))
				continue
			}
			if err := store.Rename(pin.ID, oldName, newName); err != nil {
				return err
			}
			s.logger.Info(fmt.Sprintf("Pin %s file name updated:\n  Old: %s\n  New: %s", pin.ID, oldName, newName))
		}

		errCount := 0
		if len(jobs) > 0 {
			pool := downloader.NewWorkerPool(s.config.Download.Threads, s.client, store, s.logger)
			pool.Start()

			go func() {
				for _, job := range jobs {
					_ = pool.Submit(job)
				}
				pool.Stop()
			}()

			// Completions are consumed one at a time in finish order, which
			// serializes progress output and error counting.
			for result := range pool.Results() {
				if result.Err != nil {
					errCount++
					continue
				}
				downloaded++
				pin := result.Job.Pin
				fmt.Fprintln(s.out, ui.FormatProgress(downloaded, totalPins, result.Job.Number, pin.Note, pin.ID))
			}
		}

		if errCount > 0 {
			s.logger.ErrorWithFields("page had download errors", map[string]interface{}{
				"board":  board,
				"page":   pagesDone + 1,
				"errors": errCount,
			})
			return fmt.Errorf("%d of %d downloads failed on page %d", errCount, len(jobs), pagesDone+1)
		}

		pagesDone++
		if page.NextCursor != "" {
			err := ckpt.Save(&checkpoint.Checkpoint{
				NextPageCursor:   page.NextCursor,
				NumCompletePages: pagesDone,
			})
			if err != nil {
				return err
			}
		}
	}
	if err := pager.Err(); err != nil {
		return err
	}

	if err := ckpt.Clear(); err != nil {
		s.logger.WithError(err).Warn("failed to remove checkpoint file")
	}

	return nil
}

// ParseBoardRef extracts the board path from a board reference, which may be
// a full board URL, a user/board path, or a bare board ID.
func ParseBoardRef(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return strings.Trim(ref, "/")
	}
	return strings.Trim(u.Path, "/")
}
