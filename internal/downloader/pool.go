// Package downloader runs the concurrent image downloads for one page of
// pins. The pool fetches each image, settles its file extension from the
// image bytes, derives the target filename and writes it to storage.
package downloader

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/h2non/filetype"

	"pindl/pkg/logger"
	"pindl/pkg/naming"
	"pindl/pkg/pinterest"
)

// Job represents a single pin download task
type Job struct {
	Pin    pinterest.Pin
	Number int // 1-based position of the pin within the whole board
}

// Result represents the outcome of a download job
type Result struct {
	Job      Job
	Filename string
	Size     int
	Err      error
	Duration time.Duration

	// CorrectedType is set to the detected image type when the file
	// extension from the URL did not match the image bytes.
	CorrectedType string
}

// ImageFetcher downloads pin images
type ImageFetcher interface {
	DownloadImage(url string) ([]byte, error)
}

// ImageStore persists downloaded images
type ImageStore interface {
	SaveImage(pinID, filename string, data []byte) error
}

// WorkerPool manages concurrent download workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     ImageFetcher
	store       ImageStore
	logger      logger.Logger
}

// NewWorkerPool creates a new download worker pool
func NewWorkerPool(numWorkers int, fetcher ImageFetcher, store ImageStore, log logger.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		store:       store,
		logger:      log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue and, once the workers have drained it, the
// result queue. It returns immediately so the caller can keep consuming
// results while the pool winds down.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)

	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
		wp.cancel()
	}()
}

// Submit adds a new download job to the queue
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		wp.logger.DebugWithFields("Job submitted to queue", map[string]interface{}{
			"pin":        job.Pin.ID,
			"pin_number": job.Number,
		})
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the result channel for consuming download results
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// worker is the main worker routine
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			wp.logger.DebugWithFields("Worker stopping - context cancelled while sending result", map[string]interface{}{
				"worker_id": id,
			})
			return
		}
	}
}

// processJob handles a single download job
func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	wp.logger.DebugWithFields("Worker processing job", map[string]interface{}{
		"worker_id":  workerID,
		"pin":        job.Pin.ID,
		"pin_number": job.Number,
	})

	data, err := wp.fetcher.DownloadImage(job.Pin.ImageURL())
	if err != nil {
		result.Err = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("Worker failed to download image", map[string]interface{}{
			"worker_id": workerID,
			"pin":       job.Pin.ID,
			"error":     err.Error(),
			"duration":  result.Duration,
		})

		return result
	}

	result.Size = len(data)

	ext, corrected := imageExtension(data, job.Pin.ImageURL())
	if corrected != "" {
		wp.logger.DebugWithFields(strings.ToUpper(corrected)+" image extension corrected", map[string]interface{}{
			"pin": job.Pin.ID,
		})
	}
	result.CorrectedType = corrected
	result.Filename = naming.PinFilename(job.Pin.ID, job.Pin.Note, ext)

	if err := wp.store.SaveImage(job.Pin.ID, result.Filename, data); err != nil {
		result.Err = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		wp.logger.ErrorWithFields("Worker failed to save image", map[string]interface{}{
			"worker_id": workerID,
			"pin":       job.Pin.ID,
			"error":     err.Error(),
			"size":      result.Size,
		})

		return result
	}

	result.Duration = time.Since(start)

	wp.logger.DebugWithFields("Worker completed job", map[string]interface{}{
		"worker_id": workerID,
		"pin":       job.Pin.ID,
		"filename":  result.Filename,
		"size":      result.Size,
		"duration":  result.Duration,
	})

	return result
}

// imageExtension picks the file extension for a pin image. CDNs sometimes
// serve non-JPEG images from .jpg URLs, so that extension is checked against
// the image bytes and corrected when the real type differs. Other extensions
// are taken at face value.
func imageExtension(data []byte, imageURL string) (ext, corrected string) {
	ext = urlExtension(imageURL)
	if ext != ".jpg" {
		return ext, ""
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || kind.Extension == "jpg" {
		return ext, ""
	}

	return "." + kind.Extension, kind.Extension
}

// urlExtension extracts the file extension from a URL's path component.
func urlExtension(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}
