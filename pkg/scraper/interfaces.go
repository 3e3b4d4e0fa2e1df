package scraper

import "pindl/pkg/pinterest"

// PinterestClient defines the interface for Pinterest API operations
type PinterestClient interface {
	FetchBoard(board string) (*pinterest.Board, error)
	FetchMyBoards() ([]pinterest.Board, error)
	PinPages(board, startCursor string) *pinterest.PinPager
	DownloadImage(imageURL string) ([]byte, error)
}
