package pinterest

// PinPager walks a board's pins page by page, in the scanner style: call
// Next until it returns false, read the current page with Page, then check
// Err. Passing a non-empty start cursor resumes mid-board.
type PinPager struct {
	client *Client
	board  string
	cursor string
	page   PinPage
	done   bool
	err    error
}

// PinPages returns a pager over the board's pins starting at the given
// cursor, or at the first page when the cursor is empty.
func (c *Client) PinPages(board, startCursor string) *PinPager {
	return &PinPager{
		client: c,
		board:  board,
		cursor: startCursor,
	}
}

// Next fetches the next page. It returns false when the board is exhausted
// or a fetch fails; Err distinguishes the two.
func (p *PinPager) Next() bool {
	if p.done || p.err != nil {
		return false
	}

	pins, next, err := p.client.fetchPinPage(p.board, p.cursor)
	if err != nil {
		p.err = err
		return false
	}

	p.page = PinPage{Pins: pins, NextCursor: next}
	p.cursor = next
	if next == "" {
		p.done = true
	}

	return true
}

// Page returns the page fetched by the last successful Next.
func (p *PinPager) Page() PinPage {
	return p.page
}

// Err returns the error that stopped the pager, if any.
func (p *PinPager) Err() error {
	return p.err
}
